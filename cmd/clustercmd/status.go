// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clustercmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sparkstack/sparkctl/pkg/cluster"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
	"github.com/sparkstack/sparkctl/pkg/models"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-node container state and cluster health",
		RunE:  clusterStatus,
	}
}

type nodeStatus struct {
	rank    int
	where   string
	status  engine.ContainerStatus
	probeOK bool
}

func clusterStatus(_ *cobra.Command, _ []string) error {
	spec, err := resolveSpec("", "", false)
	if err != nil {
		ux.Logger.PrintToUser("Warning: %s", err)
		spec = &cluster.ClusterSpec{NodeCount: 1}
	}

	statuses := make([]nodeStatus, 1+len(spec.Workers))
	statuses[0] = nodeStatus{
		rank:    0,
		where:   "local",
		status:  engine.InspectContainer(engine.LocalRunner{}, constants.ServeContainerName),
		probeOK: true,
	}

	wg := sync.WaitGroup{}
	for i, w := range spec.Workers {
		wg.Add(1)
		go func(i int, w cluster.Worker) {
			defer wg.Done()
			host := models.NewHost(fmt.Sprintf("rank%d", w.Rank), w.MgmtAddr, spec.SSHUser, spec.SSHKeyPath)
			defer func() { _ = host.Disconnect() }()
			ns := nodeStatus{rank: w.Rank, where: w.MgmtAddr}
			if err := host.Probe(); err == nil {
				ns.probeOK = true
				ns.status = engine.InspectContainer(host, constants.ServeContainerName)
			}
			statuses[1+i] = ns
		}(i, w)
	}
	wg.Wait()

	healthy := cluster.NewHealthChecker("").Healthy(cobraContext())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Node", "Container", "Exit Code"})
	for _, ns := range statuses {
		state := string(ns.status.State)
		exitCode := "-"
		if !ns.probeOK {
			state = "unreachable"
		} else if ns.status.State.Terminal() {
			exitCode = fmt.Sprintf("%d", ns.status.ExitCode)
		}
		table.Append([]string{fmt.Sprintf("%d", ns.rank), ns.where, state, exitCode})
	}
	table.Render()

	if healthy {
		ux.Logger.GreenCheckmarkToUser("Health endpoint %s%s answering", constants.LocalAPIEndpoint, constants.HealthEndpointPath)
	} else {
		ux.Logger.RedXToUser("Health endpoint %s%s not answering", constants.LocalAPIEndpoint, constants.HealthEndpointPath)
	}
	return nil
}
