// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"fmt"
	"strconv"

	"github.com/sparkstack/sparkctl/pkg/config"
	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/models"
)

// ManagedValues computes the switcher-owned key group for a model.
func ManagedValues(m models.Model) map[string]string {
	return map[string]string{
		constants.EnvKeyModelID:         m.ModelID,
		constants.EnvKeyTPSize:          strconv.Itoa(m.TPSize),
		constants.EnvKeyNumNodes:        strconv.Itoa(m.NumNodes),
		constants.EnvKeyGPUMemFraction:  fmt.Sprintf("%.2f", m.GPUMemFraction),
		constants.EnvKeyReasoningParser: m.ReasoningParser,
		constants.EnvKeyToolParser:      m.ToolParser,
		constants.EnvKeyExtraArgs:       m.ExtraFlags(),
	}
}

// ApplyModelSwitch rewrites the local override env file for the model:
// every managed key is stripped and re-appended with fresh values, every
// other line survives untouched. Applying the same switch twice leaves one
// assignment per managed key.
func ApplyModelSwitch(localEnvPath string, m models.Model) error {
	envFile, err := config.LoadEnvFile(localEnvPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", localEnvPath, err)
	}
	envFile.SetGroup(config.ManagedKeyOrder, ManagedValues(m))
	if err := envFile.Write(localEnvPath); err != nil {
		return fmt.Errorf("writing %s: %w", localEnvPath, err)
	}
	return nil
}
