// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modelcmd

import (
	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/application"
)

var app *application.App

// NewCmd creates the model command and its subcommands.
func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "model",
		Short: "List catalog models and switch the served model",
		Long: `The model command manages which model the cluster serves. Switching a
model rewrites the managed keys of cluster.local.env and, unless told
otherwise, relaunches the cluster on the new model.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSwitchCmd())
	return cmd
}
