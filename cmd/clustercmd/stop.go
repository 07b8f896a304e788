// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

var stopWorkersFlag string

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the serving engine on all cluster nodes",
		Long: `Stop force-removes the serving container on every configured worker and
on this node. Nodes without a running container are skipped silently, so
stop is safe to run at any time.`,
		RunE: stopCluster,
	}
	addWorkersFlag(cmd.Flags(), &stopWorkersFlag)
	return cmd
}

func stopCluster(_ *cobra.Command, _ []string) error {
	spec, err := resolveSpec(stopWorkersFlag, "", false)
	if err != nil {
		// still tear down the local node when the topology is unconfigured
		ux.Logger.PrintToUser("Warning: %s", err)
		spec = &cluster.ClusterSpec{NodeCount: 1}
	}
	return cluster.NewLauncher(spec).Stop(cobraContext())
}
