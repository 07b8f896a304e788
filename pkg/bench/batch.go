// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bench

import (
	"context"
	"errors"

	"github.com/sparkstack/sparkctl/pkg/models"
)

// Stage errors classify where a model's pipeline broke. The batch absorbs
// them into per-model status tags and moves on to the next model.
var (
	ErrConfigFailed  = errors.New("config update failed")
	ErrStartupFailed = errors.New("cluster did not become ready")
)

// Pipeline is one model's switch → relaunch → wait-for-ready → benchmark
// sequence, expressed as injectable stages.
type Pipeline struct {
	Switch   func(ctx context.Context, m models.Model) error
	Relaunch func(ctx context.Context, m models.Model) error
	Run      func(ctx context.Context, m models.Model) (Result, error)
	// OnModel is called before each model's pipeline; may be nil.
	OnModel func(m models.Model)
}

// RunBatch drives the pipeline over every selected model. A failure in one
// model's pipeline is captured as that model's status tag; the batch always
// proceeds, so the final report covers every model. Cancellation stops the
// batch between models.
func RunBatch(ctx context.Context, p Pipeline, selection []models.Model) []Result {
	results := make([]Result, 0, len(selection))
	for _, m := range selection {
		if ctx.Err() != nil {
			break
		}
		if p.OnModel != nil {
			p.OnModel(m)
		}
		if err := p.Switch(ctx, m); err != nil {
			results = append(results, Result{Model: m.ModelID, Status: StatusConfigFailed})
			continue
		}
		if err := p.Relaunch(ctx, m); err != nil {
			results = append(results, Result{Model: m.ModelID, Status: StatusStartupFailed})
			continue
		}
		result, err := p.Run(ctx, m)
		if err != nil && result.Status == StatusOK {
			result.Status = StatusNoResult
		}
		if result.Model == "" {
			result.Model = m.ModelID
		}
		results = append(results, result)
	}
	return results
}

// FilterSelection applies the batch filters to the catalog.
func FilterSelection(catalog []models.Model, singleNodeOnly, multiNodeOnly, skipGated bool, names []string) []models.Model {
	selected := []models.Model{}
	for _, m := range catalog {
		if singleNodeOnly && m.MultiNode() {
			continue
		}
		if multiNodeOnly && !m.MultiNode() {
			continue
		}
		if skipGated && m.Gated {
			continue
		}
		if len(names) > 0 {
			found := false
			for _, n := range names {
				if m.Name == n || m.ModelID == n {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		selected = append(selected, m)
	}
	return selected
}
