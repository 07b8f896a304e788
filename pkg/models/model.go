// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model is one entry of the serving catalog.
type Model struct {
	Name            string  `yaml:"name"`
	ModelID         string  `yaml:"modelId"`
	TPSize          int     `yaml:"tpSize"`
	NumNodes        int     `yaml:"numNodes"`
	GPUMemFraction  float64 `yaml:"gpuMemFraction"`
	ReasoningParser string  `yaml:"reasoningParser,omitempty"`
	ToolParser      string  `yaml:"toolParser,omitempty"`
	MaxModelLen     int     `yaml:"maxModelLen,omitempty"`
	Gated           bool    `yaml:"gated,omitempty"`
	TrustRemoteCode bool    `yaml:"trustRemoteCode,omitempty"`
}

// ExtraFlags composes the engine flags a model needs beyond the managed
// config keys. Each rule is independently additive, so ordering carries no
// precedence.
func (m *Model) ExtraFlags() string {
	flags := []string{}
	if m.NumNodes > 1 {
		flags = append(flags, "--distributed-executor-backend", "ray")
	}
	if m.TrustRemoteCode {
		flags = append(flags, "--trust-remote-code")
	}
	if m.ToolParser != "" {
		flags = append(flags, "--enable-auto-tool-choice")
	}
	if m.MaxModelLen > 0 {
		flags = append(flags, fmt.Sprintf("--max-model-len %d", m.MaxModelLen))
	}
	return strings.Join(flags, " ")
}

// MultiNode reports whether the model spans more than one node.
func (m *Model) MultiNode() bool {
	return m.NumNodes > 1
}

// DefaultCatalog is the built-in model set for a two-node Spark pair.
func DefaultCatalog() []Model {
	return []Model{
		{
			Name:           "llama-3.1-8b",
			ModelID:        "meta-llama/Llama-3.1-8B-Instruct",
			TPSize:         1,
			NumNodes:       1,
			GPUMemFraction: 0.90,
			ToolParser:     "llama3_json",
			Gated:          true,
		},
		{
			Name:           "qwen-2.5-14b",
			ModelID:        "Qwen/Qwen2.5-14B-Instruct",
			TPSize:         1,
			NumNodes:       1,
			GPUMemFraction: 0.90,
			ToolParser:     "hermes",
		},
		{
			Name:            "gpt-oss-20b",
			ModelID:         "openai/gpt-oss-20b",
			TPSize:          1,
			NumNodes:        1,
			GPUMemFraction:  0.85,
			ReasoningParser: "openai_gptoss",
		},
		{
			Name:            "qwen-3-32b",
			ModelID:         "Qwen/Qwen3-32B",
			TPSize:          1,
			NumNodes:        1,
			GPUMemFraction:  0.92,
			ReasoningParser: "qwen3",
			ToolParser:      "hermes",
			MaxModelLen:     32768,
		},
		{
			Name:           "llama-3.1-70b",
			ModelID:        "meta-llama/Llama-3.1-70B-Instruct",
			TPSize:         2,
			NumNodes:       2,
			GPUMemFraction: 0.92,
			ToolParser:     "llama3_json",
			Gated:          true,
			MaxModelLen:    16384,
		},
		{
			Name:            "deepseek-r1-70b",
			ModelID:         "deepseek-ai/DeepSeek-R1-Distill-Llama-70B",
			TPSize:          2,
			NumNodes:        2,
			GPUMemFraction:  0.92,
			ReasoningParser: "deepseek_r1",
			MaxModelLen:     16384,
		},
	}
}

// LoadCatalog reads a model catalog from a YAML file; an empty path returns
// the built-in catalog.
func LoadCatalog(path string) ([]Model, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model catalog %s: %w", path, err)
	}
	var catalog struct {
		Models []Model `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing model catalog %s: %w", path, err)
	}
	if len(catalog.Models) == 0 {
		return nil, fmt.Errorf("model catalog %s lists no models", path)
	}
	return catalog.Models, nil
}

// FindModel locates a model by name or HF id.
func FindModel(catalog []Model, nameOrID string) (Model, bool) {
	for _, m := range catalog {
		if m.Name == nameOrID || m.ModelID == nameOrID {
			return m, true
		}
	}
	return Model{}, false
}
