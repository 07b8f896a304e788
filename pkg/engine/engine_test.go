// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunArgs_serializationOrder(t *testing.T) {
	assert := require.New(t)
	args := NewRunArgs("nvcr.io/nvidia/vllm:latest").
		Flag("-d").
		FlagValue("--name", "spark-vllm").
		Env("HF_TOKEN", "secret").
		WithCommand("serve", "Qwen/Qwen2.5-14B-Instruct")

	vector := args.Args()
	assert.Equal("run", vector[0])
	assert.Equal("-d", vector[1])
	// image comes after all flags, command after the image
	imageIdx := -1
	for i, a := range vector {
		if a == "nvcr.io/nvidia/vllm:latest" {
			imageIdx = i
		}
	}
	assert.NotEqual(-1, imageIdx)
	assert.Equal("serve", vector[imageIdx+1])
}

func TestRunArgs_quotesValuesWithWhitespace(t *testing.T) {
	assert := require.New(t)
	args := NewRunArgs("img").Env("EXTRA_ARGS", "--a 1 --b 2")
	assert.Contains(args.String(), `"EXTRA_ARGS=--a 1 --b 2"`)
}

func TestParseInspectOutput_states(t *testing.T) {
	assert := require.New(t)

	status := ParseInspectOutput("running 0\n", nil)
	assert.Equal(StateRunning, status.State)
	assert.Equal(0, status.ExitCode)

	status = ParseInspectOutput("exited 137\n", nil)
	assert.Equal(StateExited, status.State)
	assert.Equal(137, status.ExitCode)
	assert.True(status.State.Terminal())

	status = ParseInspectOutput("Error: No such object: spark-vllm", errors.New("exit status 1"))
	assert.Equal(StateNotFound, status.State)

	status = ParseInspectOutput("", nil)
	assert.Equal(StateNotFound, status.State)
}

func TestParseInspectOutput_unknownStatusIsTransient(t *testing.T) {
	assert := require.New(t)
	status := ParseInspectOutput("removing 0", nil)
	assert.False(status.State.Terminal())
	assert.NotEqual(StateNotFound, status.State)
}
