// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"fmt"
	"strconv"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/models"
	"github.com/sparkstack/sparkctl/pkg/utils"
)

// ModelFromEnv resolves the currently configured model: a catalog entry when
// MODEL_ID matches one, otherwise an ad-hoc model assembled from the managed
// env keys so a hand-edited config still launches.
func ModelFromEnv(env map[string]string, catalog []models.Model) (models.Model, error) {
	modelID := env[constants.EnvKeyModelID]
	if modelID == "" {
		return models.Model{}, fmt.Errorf("no %s configured; run: sparkctl model switch", constants.EnvKeyModelID)
	}
	if m, ok := models.FindModel(catalog, modelID); ok {
		return m, nil
	}
	m := models.Model{
		Name:            modelID,
		ModelID:         modelID,
		TPSize:          envInt(env, constants.EnvKeyTPSize, 1),
		NumNodes:        envInt(env, constants.EnvKeyNumNodes, 1),
		GPUMemFraction:  envFloat(env, constants.EnvKeyGPUMemFraction, 0.90),
		ReasoningParser: env[constants.EnvKeyReasoningParser],
		ToolParser:      env[constants.EnvKeyToolParser],
	}
	return m, nil
}

// InputFromEnv assembles the raw topology input from the merged cluster env.
func InputFromEnv(env map[string]string, m models.Model) TopologyInput {
	declared := envInt(env, constants.EnvKeyNumNodes, m.NumNodes)
	if declared == 0 {
		declared = 1
	}
	return TopologyInput{
		DeclaredNodeCount: declared,
		WorkerMgmtAddrs:   utils.SplitFields(env[constants.EnvKeyWorkerAddrs]),
		WorkerFabricAddrs: utils.SplitFields(env[constants.EnvKeyWorkerFabric]),
		RendezvousHost:    env[constants.EnvKeyHeadAddr],
		Model:             m,
		ServeImage:        envDefault(env, constants.EnvKeyServeImage, constants.DefaultServeImage+":"+constants.DefaultServeImageTag),
		SSHUser:           envDefault(env, constants.EnvKeySSHUser, constants.RemoteSSHUser),
		HFToken:           env[constants.EnvKeyHFToken],
	}
}

func envDefault(env map[string]string, key, fallback string) string {
	if v := env[key]; v != "" {
		return v
	}
	return fallback
}

func envInt(env map[string]string, key string, fallback int) int {
	if v := env[key]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(env map[string]string, key string, fallback float64) float64 {
	if v := env[key]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
