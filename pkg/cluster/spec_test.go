// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/models"
)

func TestResolveTopology_nodeCountFollowsAddressList(t *testing.T) {
	assert := require.New(t)
	spec, err := ResolveTopology(TopologyInput{
		DeclaredNodeCount: 5,
		WorkerFabricAddrs: []string{"192.168.100.12", "192.168.100.13"},
		WorkerMgmtAddrs:   []string{"10.0.0.12", "10.0.0.13"},
		RendezvousHost:    "192.168.100.11",
	})
	assert.NoError(err)
	assert.Equal(3, spec.NodeCount)
	assert.Len(spec.Warnings, 1)
	assert.Contains(spec.Warnings[0], "disagrees")
}

func TestResolveTopology_multiNodeWithoutAddressesFails(t *testing.T) {
	assert := require.New(t)
	_, err := ResolveTopology(TopologyInput{
		DeclaredNodeCount: 2,
	})
	assert.ErrorIs(err, constants.ErrNoWorkerAddrs)
}

func TestResolveTopology_headOnlyIgnoresDeclaredCount(t *testing.T) {
	assert := require.New(t)
	spec, err := ResolveTopology(TopologyInput{
		DeclaredNodeCount: 2,
		HeadOnly:          true,
	})
	assert.NoError(err)
	assert.Equal(1, spec.NodeCount)
	assert.Empty(spec.Workers)
}

func TestResolveTopology_fabricFallsBackForManagement(t *testing.T) {
	assert := require.New(t)
	spec, err := ResolveTopology(TopologyInput{
		DeclaredNodeCount: 2,
		WorkerFabricAddrs: []string{"192.168.100.12"},
	})
	assert.NoError(err)
	assert.Equal(2, spec.NodeCount)
	assert.Equal("192.168.100.12", spec.Workers[0].MgmtAddr)
	assert.Equal("192.168.100.12", spec.Workers[0].FabricAddr)
	warned := false
	for _, w := range spec.Warnings {
		if strings.Contains(w, "management") {
			warned = true
		}
	}
	assert.True(warned)
}

func TestResolveTopology_positionalPairingWithUndersizedMgmtList(t *testing.T) {
	assert := require.New(t)
	spec, err := ResolveTopology(TopologyInput{
		DeclaredNodeCount: 3,
		WorkerFabricAddrs: []string{"192.168.100.12", "192.168.100.13"},
		WorkerMgmtAddrs:   []string{"10.0.0.12"},
	})
	assert.NoError(err)
	assert.Len(spec.Workers, 2)
	assert.Equal("10.0.0.12", spec.Workers[0].MgmtAddr)
	// undersized management list falls back to the fabric address
	assert.Equal("192.168.100.13", spec.Workers[1].MgmtAddr)
}

func TestResolveTopology_ranksAreContiguousFromOne(t *testing.T) {
	assert := require.New(t)
	spec, err := ResolveTopology(TopologyInput{
		DeclaredNodeCount: 3,
		WorkerFabricAddrs: []string{"192.168.100.12", "192.168.100.13"},
	})
	assert.NoError(err)
	for i, w := range spec.Workers {
		assert.Equal(i+1, w.Rank)
	}
}

func TestReadyBudget_multiNodeGetsLongerBudget(t *testing.T) {
	assert := require.New(t)
	single := &ClusterSpec{NodeCount: 1}
	multi := &ClusterSpec{NodeCount: 2}
	assert.Greater(multi.ReadyBudgetTicks(), single.ReadyBudgetTicks())
}

func TestModelFromEnv_adHocModelFromManagedKeys(t *testing.T) {
	assert := require.New(t)
	env := map[string]string{
		constants.EnvKeyModelID:        "org/custom-model",
		constants.EnvKeyTPSize:         "2",
		constants.EnvKeyNumNodes:       "2",
		constants.EnvKeyGPUMemFraction: "0.85",
	}
	m, err := ModelFromEnv(env, models.DefaultCatalog())
	assert.NoError(err)
	assert.Equal("org/custom-model", m.ModelID)
	assert.Equal(2, m.TPSize)
	assert.Equal(2, m.NumNodes)
	assert.InDelta(0.85, m.GPUMemFraction, 1e-9)
}

func TestModelFromEnv_missingModelIDFails(t *testing.T) {
	assert := require.New(t)
	_, err := ModelFromEnv(map[string]string{}, models.DefaultCatalog())
	assert.Error(err)
}
