// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparkstack/sparkctl/pkg/models"
)

func threeModelCatalog() []models.Model {
	return []models.Model{
		{Name: "m1", ModelID: "org/m1", TPSize: 4, NumNodes: 1},
		{Name: "m2", ModelID: "org/m2", TPSize: 4, NumNodes: 1},
		{Name: "m3", ModelID: "org/m3", TPSize: 4, NumNodes: 1},
	}
}

func okPipeline() Pipeline {
	return Pipeline{
		Switch:   func(context.Context, models.Model) error { return nil },
		Relaunch: func(context.Context, models.Model) error { return nil },
		Run: func(_ context.Context, m models.Model) (Result, error) {
			return Result{Model: m.ModelID, Status: StatusOK, RequestThroughput: 1}, nil
		},
	}
}

func TestRunBatch_startupFailureDoesNotAbortTheBatch(t *testing.T) {
	assert := require.New(t)
	p := okPipeline()
	p.Relaunch = func(_ context.Context, m models.Model) error {
		if m.Name == "m2" {
			return ErrStartupFailed
		}
		return nil
	}

	results := RunBatch(context.Background(), p, threeModelCatalog())

	assert.Len(results, 3)
	assert.Equal(StatusOK, results[0].Status)
	assert.Equal(StatusStartupFailed, results[1].Status)
	assert.Equal("org/m2", results[1].Model)
	assert.Equal(StatusOK, results[2].Status)

	// The broken model still ranks, at the bottom of the report.
	SortResults(results, MetricRequestThroughput)
	assert.Equal(StatusStartupFailed, results[2].Status)
}

func TestRunBatch_configFailureTagsTheModel(t *testing.T) {
	assert := require.New(t)
	p := okPipeline()
	relaunched := 0
	p.Switch = func(context.Context, models.Model) error { return ErrConfigFailed }
	p.Relaunch = func(context.Context, models.Model) error {
		relaunched++
		return nil
	}

	results := RunBatch(context.Background(), p, threeModelCatalog()[:1])

	assert.Len(results, 1)
	assert.Equal(StatusConfigFailed, results[0].Status)
	assert.Zero(relaunched)
}

func TestRunBatch_runErrorWithoutStatusBecomesNoResult(t *testing.T) {
	assert := require.New(t)
	p := okPipeline()
	p.Run = func(context.Context, models.Model) (Result, error) {
		return Result{Status: StatusOK}, errors.New("result file missing")
	}

	results := RunBatch(context.Background(), p, threeModelCatalog()[:1])

	assert.Len(results, 1)
	assert.Equal(StatusNoResult, results[0].Status)
	assert.Equal("org/m1", results[0].Model)
}

func TestRunBatch_cancellationStopsBetweenModels(t *testing.T) {
	assert := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	p := okPipeline()
	p.Run = func(_ context.Context, m models.Model) (Result, error) {
		if m.Name == "m1" {
			cancel()
		}
		return Result{Model: m.ModelID, Status: StatusOK}, nil
	}

	results := RunBatch(ctx, p, threeModelCatalog())

	assert.Len(results, 1)
	assert.Equal("org/m1", results[0].Model)
}

func TestFilterSelection(t *testing.T) {
	assert := require.New(t)
	catalog := []models.Model{
		{Name: "small", ModelID: "org/small", NumNodes: 1},
		{Name: "gated", ModelID: "org/gated", NumNodes: 1, Gated: true},
		{Name: "big", ModelID: "org/big", NumNodes: 2},
	}

	single := FilterSelection(catalog, true, false, false, nil)
	assert.Len(single, 2)
	for _, m := range single {
		assert.False(m.MultiNode())
	}

	multi := FilterSelection(catalog, false, true, false, nil)
	assert.Len(multi, 1)
	assert.Equal("big", multi[0].Name)

	open := FilterSelection(catalog, false, false, true, nil)
	assert.Len(open, 2)

	named := FilterSelection(catalog, false, false, false, []string{"org/small", "big"})
	assert.Len(named, 2)
	assert.Equal("small", named[0].Name)
	assert.Equal("big", named[1].Name)
}

func TestLookupProfile(t *testing.T) {
	assert := require.New(t)

	p, err := LookupProfile("throughput")
	assert.NoError(err)
	assert.Equal(1000, p.NumPrompts)
	assert.Equal(64, p.Concurrency)

	custom, err := LookupProfile("custom")
	assert.NoError(err)
	assert.Equal("custom", custom.Name)
	assert.Equal(100, custom.NumPrompts)

	_, err = LookupProfile("bogus")
	assert.ErrorContains(err, "unknown benchmark profile")
}
