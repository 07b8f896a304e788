// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/utils"
)

// addWorkersFlag registers the worker address override shared by the cluster
// subcommands.
func addWorkersFlag(flags *pflag.FlagSet, workers *string) {
	flags.StringVar(workers, "workers", "", "override worker management addresses (space separated)")
}

// cobraContext returns a context canceled on Ctrl-C so the readiness wait
// can be interrupted without killing the launched engine.
func cobraContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func resolveSpec(workersOverride, fabricOverride string, headOnly bool) (*cluster.ClusterSpec, error) {
	return cluster.ResolveFromApp(app, cluster.Overrides{
		WorkerMgmtAddrs:   utils.SplitFields(workersOverride),
		WorkerFabricAddrs: utils.SplitFields(fabricOverride),
		HeadOnly:          headOnly,
	})
}
