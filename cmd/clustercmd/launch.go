// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

var (
	headOnly        bool
	skipPull        bool
	workersFlag     string
	fabricAddrsFlag string
	strictCleanExit bool
)

func newLaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch the serving engine on all cluster nodes",
		Long: `Launch starts the configured model on the cluster: worker ranks first
over SSH, then rank 0 locally, then polls the health endpoint until the
cluster is ready, a node is observed crashed, or the time budget runs out.

A timeout is soft: the engine is left running and may still become ready;
check progress with 'sparkctl cluster status'.`,
		RunE: launchCluster,
	}
	cmd.Flags().BoolVar(&headOnly, "head-only", false, "run a single-node cluster on this machine only")
	cmd.Flags().BoolVar(&skipPull, "skip-pull", false, "skip pulling the serving image before starting")
	addWorkersFlag(cmd.Flags(), &workersFlag)
	cmd.Flags().StringVar(&fabricAddrsFlag, "fabric-addrs", "", "override worker fabric addresses (space separated)")
	cmd.Flags().BoolVar(&strictCleanExit, "strict-clean-exit", false, "treat a clean engine exit during startup as a failure")
	return cmd
}

func launchCluster(_ *cobra.Command, _ []string) error {
	spec, err := resolveSpec(workersFlag, fabricAddrsFlag, headOnly)
	if err != nil {
		return err
	}
	if spec.Model.Gated && spec.HFToken == "" {
		ux.Logger.PrintToUser("Warning: %s is a gated model and no HF token is configured; the engine may fail to download it", spec.Model.ModelID)
	}

	ux.Logger.PrintToUser("Launching %s on %d node(s), rendezvous %s:%d",
		spec.Model.ModelID, spec.NodeCount, spec.RendezvousHost, spec.RendezvousPort)

	if !skipPull {
		if err := pullImageWithProgress(spec.ServeImage); err != nil {
			return err
		}
	}

	launcher := cluster.NewLauncher(spec)
	requests := cluster.BuildLaunchRequests(spec)
	ctx := cobraContext()
	if err := launcher.Launch(ctx, requests); err != nil {
		return err
	}

	cfg := cluster.DefaultPollConfig(spec.MultiNode())
	cfg.FatalOnCleanExit = strictCleanExit
	poller := cluster.NewPoller(cfg, cluster.DefaultProbes(cluster.NewHealthChecker(""), engine.LocalRunner{}))
	poller.OnProgress = func(excerpt string) {
		if excerpt != "" {
			ux.Logger.PrintToUser("  engine: %s", excerpt)
		}
	}
	ux.Logger.PrintToUser("Waiting up to %d seconds for the cluster to become ready ...", cfg.BudgetTicks)
	result := poller.Wait(ctx)

	switch result.Verdict {
	case cluster.VerdictReady:
		ux.Logger.GreenCheckmarkToUser("Cluster ready after %d second(s)", result.Ticks)
		checker := cluster.NewHealthChecker("")
		if err := checker.SmokeTest(ctx, spec.Model.ModelID); err != nil {
			ux.Logger.PrintToUser("Warning: health endpoint is up but the completion probe failed: %s", err)
		} else {
			ux.Logger.GreenCheckmarkToUser("Completion probe answered")
		}
		ux.Logger.PrintToUser("Try it:")
		ux.Logger.PrintToUser(`  curl %s%s -H 'Content-Type: application/json' \
    -d '{"model":"%s","messages":[{"role":"user","content":"Hello"}]}'`,
			constants.LocalAPIEndpoint, constants.ChatCompletionsPath, spec.Model.ModelID)
		return nil
	case cluster.VerdictTimedOut:
		ux.Logger.PrintToUser("Cluster started but not yet confirmed ready after %d second(s).", result.Ticks)
		ux.Logger.PrintToUser("Large models can take longer to load; check progress with: docker logs -f %s", constants.ServeContainerName)
		return nil
	case cluster.VerdictCanceled:
		return result.Err
	default:
		if tail, err := engine.TailLogs(engine.LocalRunner{}, constants.ServeContainerName, constants.ContainerLogTailOnFailure); err == nil && tail != "" {
			ux.Logger.PrintToUser("Last engine output:\n%s", tail)
		}
		return fmt.Errorf("cluster failed to start: %w", result.Err)
	}
}

// pullImageWithProgress runs the image pull with a spinner so long layer
// downloads do not look like a hang.
func pullImageWithProgress(image string) error {
	ux.Logger.PrintToUser("Pulling %s ...", image)
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("pulling"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan error, 1)
	go func() {
		done <- engine.PullImage(engine.LocalRunner{}, image)
	}()
	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			if err != nil {
				return err
			}
			ux.Logger.GreenCheckmarkToUser("Image ready")
			return nil
		case <-time.After(200 * time.Millisecond):
			_ = bar.Add(1)
		}
	}
}
