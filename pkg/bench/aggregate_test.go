// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortResults_throughputDescending(t *testing.T) {
	assert := require.New(t)
	results := []Result{
		{Model: "a", Status: StatusOK, RequestThroughput: 1.5},
		{Model: "b", Status: StatusOK, RequestThroughput: 3.0},
		{Model: "c", Status: StatusOK, RequestThroughput: 2.0},
	}
	SortResults(results, MetricRequestThroughput)
	assert.Equal([]string{"b", "c", "a"}, []string{results[0].Model, results[1].Model, results[2].Model})
}

func TestSortResults_latencyAscending(t *testing.T) {
	assert := require.New(t)
	results := []Result{
		{Model: "a", Status: StatusOK, MeanTTFTMs: 300},
		{Model: "b", Status: StatusOK, MeanTTFTMs: 120},
	}
	SortResults(results, MetricMeanTTFT)
	assert.Equal("b", results[0].Model)
}

func TestSortResults_tieBreaksOnModelName(t *testing.T) {
	assert := require.New(t)
	results := []Result{
		{Model: "zeta", Status: StatusOK, RequestThroughput: 2.0},
		{Model: "alpha", Status: StatusOK, RequestThroughput: 2.0},
	}
	SortResults(results, MetricRequestThroughput)
	assert.Equal("alpha", results[0].Model)
}

func TestSortResults_failedRowsSinkToTheBottom(t *testing.T) {
	assert := require.New(t)
	results := []Result{
		{Model: "broken", Status: StatusStartupFailed},
		{Model: "ok", Status: StatusOK, RequestThroughput: 0.1},
	}
	SortResults(results, MetricRequestThroughput)
	assert.Equal("ok", results[0].Model)
	assert.Equal("broken", results[1].Model)
}

func TestRenderTable_coversEveryRow(t *testing.T) {
	assert := require.New(t)
	var buf bytes.Buffer
	RenderTable(&buf, []Result{
		{Model: "m1", Status: StatusOK, RequestThroughput: 2.5},
		{Model: "m2", Status: StatusStartupFailed},
	})
	out := buf.String()
	assert.Contains(out, "m1")
	assert.Contains(out, "m2")
	assert.Contains(out, "STARTUP_FAILED")
}

func TestExport_writesJSONAndCSV(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()
	results := []Result{
		{Model: "m1", Profile: "short", Status: StatusOK, RequestThroughput: 2.5},
		{Model: "m2", Profile: "short", Status: StatusBenchTimeout},
	}
	assert.NoError(Export(dir, results))

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	assert.NoError(err)
	var decoded []Result
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.Len(decoded, 2)

	csvData, err := os.ReadFile(filepath.Join(dir, "results.csv"))
	assert.NoError(err)
	assert.Contains(string(csvData), "m1,short,OK")
	assert.Contains(string(csvData), "m2,short,BENCH_TIMEOUT")
}
