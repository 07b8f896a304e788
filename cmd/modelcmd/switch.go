// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package modelcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/models"
	"github.com/sparkstack/sparkctl/pkg/utils"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

var (
	listOnly    bool
	skipRestart bool
	assumeYes   bool
)

func newSwitchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch [modelIndex]",
		Short: "Switch the served model",
		Long: `Switch rewrites the managed model keys in cluster.local.env and then
stops and relaunches the cluster on the new model. With no index argument
the model is selected interactively from the catalog.

Gated models need an HF token; without one the switch asks whether to
continue anyway.`,
		Args: cobra.MaximumNArgs(1),
		RunE: switchModel,
	}
	cmd.Flags().BoolVar(&listOnly, "list", false, "only list the catalog, change nothing")
	cmd.Flags().BoolVar(&skipRestart, "skip-restart", false, "update the config but skip the cluster relaunch")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmation prompts")
	return cmd
}

func switchModel(cmd *cobra.Command, args []string) error {
	if listOnly {
		return listModels(cmd, nil)
	}
	catalog, err := app.LoadCatalog()
	if err != nil {
		return err
	}

	var model models.Model
	if len(args) == 1 {
		idx, err := strconv.Atoi(args[0])
		if err != nil || idx < 1 || idx > len(catalog) {
			return fmt.Errorf("invalid model index %q: expected a number between 1 and %d (see: sparkctl model list)", args[0], len(catalog))
		}
		model = catalog[idx-1]
	} else {
		names := utils.Map(catalog, func(m models.Model) string {
			return fmt.Sprintf("%s (%s)", m.Name, m.ModelID)
		})
		idx, err := app.Prompt.CaptureIndex("Select the model to serve", names)
		if err != nil {
			return err
		}
		model = catalog[idx]
	}

	if model.Gated && os.Getenv(constants.HFTokenEnvVar) == "" {
		ux.Logger.PrintToUser("Warning: %s is gated and no %s is set; the engine will likely fail to download it.",
			model.ModelID, constants.HFTokenEnvVar)
		if !assumeYes {
			cont, err := app.Prompt.CaptureYesNo("Continue anyway?")
			if err != nil {
				return err
			}
			if !cont {
				return constants.ErrAborted
			}
		}
	}

	localEnvPath := app.GetClusterLocalEnvPath()
	if err := cluster.ApplyModelSwitch(localEnvPath, model); err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Configured %s (%d node(s), TP %d) in %s",
		model.ModelID, model.NumNodes, model.TPSize, localEnvPath)

	if skipRestart {
		ux.Logger.PrintToUser("Relaunch skipped; apply with: sparkctl cluster launch")
		return nil
	}

	spec, err := cluster.ResolveFromApp(app, cluster.Overrides{Model: model.ModelID})
	if err != nil {
		return err
	}
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	result, err := cluster.RelaunchAndWait(ctx, spec, cluster.DefaultPollConfig(spec.MultiNode()))
	if err != nil {
		return err
	}
	switch result.Verdict {
	case cluster.VerdictReady:
		ux.Logger.GreenCheckmarkToUser("Cluster serving %s after %d second(s)", model.ModelID, result.Ticks)
		return nil
	case cluster.VerdictTimedOut:
		ux.Logger.PrintToUser("Cluster started but not yet confirmed ready; check with: sparkctl cluster status")
		return nil
	default:
		return fmt.Errorf("relaunch on %s failed: %w", model.ModelID, result.Err)
	}
}
