// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparkstack/sparkctl/pkg/models"
)

func TestBuildLaunchRequests_onePerNodeRankZeroFirst(t *testing.T) {
	assert := require.New(t)
	spec := testSpec("10.0.0.12")
	requests := BuildLaunchRequests(spec)
	assert.Len(requests, 2)
	assert.Equal(0, requests[0].Rank)
	assert.Empty(requests[0].MgmtAddr)
	assert.Equal(1, requests[1].Rank)
	assert.Equal("10.0.0.12", requests[1].MgmtAddr)
}

func TestBuildLaunchRequests_multiNodeCarriesRendezvousAndRank(t *testing.T) {
	assert := require.New(t)
	spec := testSpec("10.0.0.12")
	requests := BuildLaunchRequests(spec)

	head := requests[0].Args.String()
	worker := requests[1].Args.String()
	assert.Contains(head, "--node-rank 0")
	assert.Contains(worker, "--node-rank 1")
	for _, cmd := range []string{head, worker} {
		assert.Contains(cmd, "--nnodes 2")
		assert.Contains(cmd, "--dist-init-addr 192.168.100.11:6379")
	}
}

func TestBuildLaunchRequests_singleNodeOmitsDistributedFlags(t *testing.T) {
	assert := require.New(t)
	spec := testSpec()
	requests := BuildLaunchRequests(spec)
	assert.Len(requests, 1)
	cmd := requests[0].Args.String()
	assert.NotContains(cmd, "--nnodes")
	assert.NotContains(cmd, "--dist-init-addr")
}

func TestBuildLaunchRequests_fabricEnvReachesTheContainer(t *testing.T) {
	assert := require.New(t)
	spec := testSpec("10.0.0.12")
	spec.SocketIfname = "enP2p1s0"
	spec.IBDevices = []string{"mlx5_0", "mlx5_1"}
	spec.HFToken = "hf_secret"

	cmd := BuildLaunchRequests(spec)[0].Args.String()
	assert.Contains(cmd, "NCCL_SOCKET_IFNAME=enP2p1s0")
	assert.Contains(cmd, "GLOO_SOCKET_IFNAME=enP2p1s0")
	assert.Contains(cmd, "NCCL_IB_HCA=mlx5_0,mlx5_1")
	assert.Contains(cmd, "HF_TOKEN=hf_secret")
}

func TestBuildLaunchRequests_parsersAndExtraFlags(t *testing.T) {
	assert := require.New(t)
	spec := testSpec()
	spec.Model = models.Model{
		ModelID:         "deepseek-ai/DeepSeek-R1-Distill-Llama-70B",
		TPSize:          2,
		NumNodes:        1,
		GPUMemFraction:  0.92,
		ReasoningParser: "deepseek_r1",
		ToolParser:      "hermes",
		TrustRemoteCode: true,
	}
	cmd := BuildLaunchRequests(spec)[0].Args.String()
	assert.Contains(cmd, "--reasoning-parser deepseek_r1")
	assert.Contains(cmd, "--tool-call-parser hermes")
	assert.Contains(cmd, "--trust-remote-code")
	assert.Contains(cmd, "--enable-auto-tool-choice")
	// serialized only once, at the boundary
	assert.Equal(1, strings.Count(cmd, "docker run"))
}
