// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

func TestEnvFile_parsePreservesUnrecognizedLines(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "cluster.local.env")
	content := "# operator notes\nCUSTOM_KEY=keepme\nexport MODEL_ID=old/model\n"
	assert.NoError(os.WriteFile(path, []byte(content), 0o644))

	f, err := LoadEnvFile(path)
	assert.NoError(err)
	f.SetGroup(ManagedKeyOrder, map[string]string{constants.EnvKeyModelID: "new/model"})
	assert.NoError(f.Write(path))

	out, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Contains(string(out), "# operator notes")
	assert.Contains(string(out), "CUSTOM_KEY=keepme")
	assert.Contains(string(out), "MODEL_ID=new/model")
	assert.NotContains(string(out), "old/model")
}

func TestEnvFile_setGroupIsIdempotent(t *testing.T) {
	assert := require.New(t)
	f := &EnvFile{}
	values := map[string]string{
		constants.EnvKeyModelID:  "Qwen/Qwen2.5-14B-Instruct",
		constants.EnvKeyTPSize:   "1",
		constants.EnvKeyNumNodes: "1",
	}
	f.SetGroup(ManagedKeyOrder, values)
	f.SetGroup(ManagedKeyOrder, values)

	for key := range values {
		assert.Equal(1, f.KeyCount(key), "key %s", key)
	}
}

func TestEnvFile_missingFileIsEmpty(t *testing.T) {
	assert := require.New(t)
	f, err := LoadEnvFile(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(err)
	_, found := f.Get(constants.EnvKeyModelID)
	assert.False(found)
}

func TestEnvFile_mergeLaterFileWins(t *testing.T) {
	assert := require.New(t)
	template := &EnvFile{lines: []string{
		"MODEL_ID=template/model",
		"SERVE_IMAGE=nvcr.io/nvidia/vllm:latest",
	}}
	local := &EnvFile{lines: []string{
		"MODEL_ID=local/model",
	}}
	merged := template.Merge(local)
	assert.Equal("local/model", merged["MODEL_ID"])
	assert.Equal("nvcr.io/nvidia/vllm:latest", merged["SERVE_IMAGE"])
}

func TestEnvFile_quotedValuesRoundTrip(t *testing.T) {
	assert := require.New(t)
	f := &EnvFile{}
	f.Set("WORKER_ADDRS", "10.0.0.12 10.0.0.13")
	val, found := f.Get("WORKER_ADDRS")
	assert.True(found)
	assert.Equal("10.0.0.12 10.0.0.13", val)
}

func TestEnvFile_lastAssignmentWinsWithinAFile(t *testing.T) {
	assert := require.New(t)
	f := &EnvFile{lines: []string{"TP_SIZE=1", "TP_SIZE=2"}}
	val, found := f.Get("TP_SIZE")
	assert.True(found)
	assert.Equal("2", val)
}
