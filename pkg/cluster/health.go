// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
	"github.com/sparkstack/sparkctl/pkg/utils"
)

// HealthChecker probes the serving engine's HTTP surface. The contract is
// minimal: 200 on GET /health means ready.
type HealthChecker struct {
	Endpoint string
	Client   *http.Client
}

func NewHealthChecker(endpoint string) *HealthChecker {
	if endpoint == "" {
		endpoint = constants.LocalAPIEndpoint
	}
	return &HealthChecker{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: constants.HealthProbeTimeout},
	}
}

// Healthy reports whether the health endpoint answered 200.
func (h *HealthChecker) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.Endpoint+constants.HealthEndpointPath, nil)
	if err != nil {
		return false
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// SmokeTest sends one small chat completion to confirm the cluster answers
// real requests, not just health checks.
func (h *HealthChecker) SmokeTest(ctx context.Context, modelID string) error {
	body, err := json.Marshal(map[string]interface{}{
		"model": modelID,
		"messages": []map[string]string{
			{"role": "user", "content": "Say OK."},
		},
		"max_tokens": 8,
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, constants.FunctionalProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint+constants.ChatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("chat completions probe: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat completions probe answered %d: %s", resp.StatusCode, utils.LastLines(string(respBody), 1))
	}
	return nil
}

// DefaultProbes wires the poller against the local engine: HTTP health plus
// docker container inspection.
func DefaultProbes(health *HealthChecker, local engine.Runner) Probes {
	return Probes{
		Health: health.Healthy,
		Status: func(_ context.Context) engine.ContainerStatus {
			return engine.InspectContainer(local, constants.ServeContainerName)
		},
		LogExcerpt: func(_ context.Context) string {
			excerpt, err := engine.TailLogs(local, constants.ServeContainerName, constants.ContainerLogExcerptLines)
			if err != nil {
				return ""
			}
			return utils.LastLines(excerpt, constants.ContainerLogExcerptLines)
		},
	}
}
