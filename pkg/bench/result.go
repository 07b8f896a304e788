// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bench

import (
	"encoding/json"
	"fmt"
	"os"
)

// Status tags one model's benchmark pipeline outcome. A bad outcome for one
// model never aborts the batch.
type Status string

const (
	StatusOK            Status = "OK"
	StatusConfigFailed  Status = "CONFIG_FAILED"
	StatusStartupFailed Status = "STARTUP_FAILED"
	StatusBenchTimeout  Status = "BENCH_TIMEOUT"
	StatusNoResult      Status = "NO_RESULT"
)

// Result is one model's benchmark outcome.
type Result struct {
	Model   string `json:"model"`
	Profile string `json:"profile"`
	Status  Status `json:"status"`

	RequestThroughput float64 `json:"request_throughput"` // req/s
	OutputThroughput  float64 `json:"output_throughput"`  // tok/s
	MeanTTFTMs        float64 `json:"mean_ttft_ms"`
	P99TTFTMs         float64 `json:"p99_ttft_ms"`
	MeanTPOTMs        float64 `json:"mean_tpot_ms"`
	P99TPOTMs         float64 `json:"p99_tpot_ms"`
	DurationSeconds   float64 `json:"duration"`
	Completed         int     `json:"completed"`
}

// ParseResultFile reads the JSON document the load generator writes with
// --save-result. Field names follow the generator's serve-benchmark schema.
func ParseResultFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading benchmark result %s: %w", path, err)
	}
	return parseResult(data)
}

func parseResult(data []byte) (Result, error) {
	var raw struct {
		ModelID           string  `json:"model_id"`
		RequestThroughput float64 `json:"request_throughput"`
		OutputThroughput  float64 `json:"output_throughput"`
		MeanTTFTMs        float64 `json:"mean_ttft_ms"`
		P99TTFTMs         float64 `json:"p99_ttft_ms"`
		MeanTPOTMs        float64 `json:"mean_tpot_ms"`
		P99TPOTMs         float64 `json:"p99_tpot_ms"`
		Duration          float64 `json:"duration"`
		Completed         int     `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, fmt.Errorf("parsing benchmark result: %w", err)
	}
	return Result{
		Model:             raw.ModelID,
		Status:            StatusOK,
		RequestThroughput: raw.RequestThroughput,
		OutputThroughput:  raw.OutputThroughput,
		MeanTTFTMs:        raw.MeanTTFTMs,
		P99TTFTMs:         raw.P99TTFTMs,
		MeanTPOTMs:        raw.MeanTPOTMs,
		P99TPOTMs:         raw.P99TPOTMs,
		DurationSeconds:   raw.Duration,
		Completed:         raw.Completed,
	}, nil
}
