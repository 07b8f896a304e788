// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedExec captures the generator script and optionally writes a result
// file the way the real generator would with --save-result.
type scriptedExec struct {
	script     string
	err        error
	resultBody []byte
}

func (s *scriptedExec) Command(script string, _ []string, _ time.Duration) ([]byte, error) {
	s.script = script
	if s.err != nil {
		return nil, s.err
	}
	if s.resultBody != nil {
		for _, tok := range strings.Fields(script) {
			if strings.HasSuffix(tok, ".json") {
				if err := os.WriteFile(tok, s.resultBody, 0o644); err != nil {
					return nil, err
				}
			}
		}
	}
	return []byte("ok"), nil
}

func sampleResultJSON(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"model_id":           "meta-llama/Llama-3.1-8B-Instruct",
		"request_throughput": 3.42,
		"output_throughput":  871.5,
		"mean_ttft_ms":       142.1,
		"p99_ttft_ms":        410.9,
		"mean_tpot_ms":       11.8,
		"p99_tpot_ms":        19.2,
		"duration":           58.3,
		"completed":          100,
	})
	require.NoError(t, err)
	return body
}

func TestRun_parsesGeneratorResult(t *testing.T) {
	assert := require.New(t)
	exec := &scriptedExec{resultBody: sampleResultJSON(t)}
	r := &Runner{Exec: exec, Timeout: time.Minute}

	profile, err := LookupProfile("quick")
	assert.NoError(err)
	result, err := r.Run(RunSpec{
		ModelID:   "meta-llama/Llama-3.1-8B-Instruct",
		Profile:   profile,
		OutputDir: t.TempDir(),
		External:  true,
	})
	assert.NoError(err)
	assert.Equal(StatusOK, result.Status)
	assert.Equal("quick", result.Profile)
	assert.InDelta(3.42, result.RequestThroughput, 0.001)
	assert.Equal(100, result.Completed)

	assert.True(strings.HasPrefix(exec.script, "vllm bench serve"))
	assert.Contains(exec.script, "--num-prompts 20")
	assert.Contains(exec.script, "--max-concurrency 4")
	assert.NotContains(exec.script, "--request-rate")
}

func TestRun_containerizedCommandMountsOutputDir(t *testing.T) {
	assert := require.New(t)
	exec := &scriptedExec{resultBody: sampleResultJSON(t)}
	r := &Runner{Exec: exec, Timeout: time.Minute}

	dir := t.TempDir()
	profile, err := LookupProfile("latency")
	assert.NoError(err)
	_, err = r.Run(RunSpec{
		ModelID:   "org/model",
		Profile:   profile,
		OutputDir: dir,
		Image:     "vllm/vllm-openai:v0.8.4",
	})
	assert.NoError(err)
	assert.True(strings.HasPrefix(exec.script, "docker run --rm --network host"))
	assert.Contains(exec.script, "-v "+dir+":"+dir)
	assert.Contains(exec.script, "vllm/vllm-openai:v0.8.4")
	assert.Contains(exec.script, "--request-rate 1.0")
}

func TestRun_deadlineBecomesBenchTimeout(t *testing.T) {
	assert := require.New(t)
	exec := &scriptedExec{err: context.DeadlineExceeded}
	r := &Runner{Exec: exec, Timeout: time.Minute}

	profile, err := LookupProfile("short")
	assert.NoError(err)
	result, err := r.Run(RunSpec{ModelID: "org/model", Profile: profile, OutputDir: t.TempDir(), External: true})
	assert.Error(err)
	assert.Equal(StatusBenchTimeout, result.Status)
}

func TestRun_missingResultFileIsNoResult(t *testing.T) {
	assert := require.New(t)
	exec := &scriptedExec{}
	r := &Runner{Exec: exec, Timeout: time.Minute}

	profile, err := LookupProfile("short")
	assert.NoError(err)
	result, err := r.Run(RunSpec{ModelID: "org/model", Profile: profile, OutputDir: t.TempDir(), External: true})
	assert.Error(err)
	assert.Equal(StatusNoResult, result.Status)
	assert.Equal("org/model", result.Model)
}

func TestParseResult_mapsGeneratorFields(t *testing.T) {
	assert := require.New(t)
	result, err := parseResult(sampleResultJSON(t))
	assert.NoError(err)
	assert.Equal("meta-llama/Llama-3.1-8B-Instruct", result.Model)
	assert.Equal(StatusOK, result.Status)
	assert.InDelta(871.5, result.OutputThroughput, 0.001)
	assert.InDelta(58.3, result.DurationSeconds, 0.001)

	_, err = parseResult([]byte("not json"))
	assert.ErrorContains(err, "parsing benchmark result")
}

func TestResultFileName_sanitizesModelID(t *testing.T) {
	assert := require.New(t)
	assert.Equal("org_model_fp8_short.json", resultFileName("org/model:fp8", "short"))
}
