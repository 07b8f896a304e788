// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package clustercmd

import (
	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/application"
)

var app *application.App

// NewCmd creates the cluster command and its subcommands.
func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Launch, stop and inspect the serving cluster",
		Long: `The cluster command manages the lifecycle of the inference cluster:
launching the serving engine on all nodes, waiting for readiness,
stopping it everywhere, and reporting per-node status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newLaunchCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())
	return cmd
}
