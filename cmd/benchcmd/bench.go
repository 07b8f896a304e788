// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package benchcmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/application"
)

var app *application.App

// NewCmd creates the bench command and its subcommands.
func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run load benchmarks against the serving cluster",
		Long: `The bench command drives the load generator against the cluster's
OpenAI-compatible endpoint: a single run against the currently served
model, or a full batch that switches through the catalog and renders a
ranked comparison report.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newAllCmd())
	return cmd
}

func benchContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}
