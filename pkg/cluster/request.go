// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"fmt"
	"strings"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
)

// NodeLaunchRequest is everything needed to start one node's serving
// container: the rank, where to run it, and the fully built invocation.
// Discarded once the launch command has been issued.
type NodeLaunchRequest struct {
	Rank     int
	MgmtAddr string // empty for the local rank 0
	Args     *engine.RunArgs
}

// BuildLaunchRequests derives one request per node from the spec, rank 0
// first. All nodes share the rendezvous address; only the rank differs.
func BuildLaunchRequests(spec *ClusterSpec) []NodeLaunchRequest {
	requests := []NodeLaunchRequest{{
		Rank: 0,
		Args: buildRunArgs(spec, 0),
	}}
	for _, w := range spec.Workers {
		requests = append(requests, NodeLaunchRequest{
			Rank:     w.Rank,
			MgmtAddr: w.MgmtAddr,
			Args:     buildRunArgs(spec, w.Rank),
		})
	}
	return requests
}

func buildRunArgs(spec *ClusterSpec, rank int) *engine.RunArgs {
	args := engine.NewRunArgs(spec.ServeImage).
		Flag("-d").
		FlagValue("--name", constants.ServeContainerName).
		FlagValue("--gpus", "all").
		FlagValue("--network", "host").
		FlagValue("--ipc", "host").
		FlagValue("--shm-size", "16g").
		FlagValue("--restart", "no").
		Volume("/var/lib/sparkctl/hf-cache", constants.HFHomeContainerDir)

	if spec.HFToken != "" {
		args.Env(constants.HFTokenEnvVar, spec.HFToken)
	}
	if spec.SocketIfname != "" {
		args.Env(constants.NCCLSocketIfname, spec.SocketIfname)
		args.Env(constants.GlooSocketIfname, spec.SocketIfname)
	}
	if len(spec.IBDevices) > 0 {
		args.Env(constants.NCCLIBHCA, strings.Join(spec.IBDevices, ","))
	}

	m := spec.Model
	args.WithCommand(
		"serve", m.ModelID,
		"--host", "0.0.0.0",
		"--port", fmt.Sprintf("%d", constants.ServePort),
		"--tensor-parallel-size", fmt.Sprintf("%d", m.TPSize),
		"--gpu-memory-utilization", fmt.Sprintf("%.2f", m.GPUMemFraction),
	)
	if spec.MultiNode() {
		args.WithCommand(
			"--nnodes", fmt.Sprintf("%d", spec.NodeCount),
			"--node-rank", fmt.Sprintf("%d", rank),
			"--dist-init-addr", fmt.Sprintf("%s:%d", spec.RendezvousHost, spec.RendezvousPort),
		)
	}
	if m.ReasoningParser != "" {
		args.WithCommand("--reasoning-parser", m.ReasoningParser)
	}
	if m.ToolParser != "" {
		args.WithCommand("--tool-call-parser", m.ToolParser)
	}
	if extra := m.ExtraFlags(); extra != "" {
		args.WithCommand(strings.Fields(extra)...)
	}
	return args
}
