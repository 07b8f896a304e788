// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

// ManagedKeyOrder is the key group the model switcher owns in the local env
// file. Switch rewrites exactly these keys, in this order, and leaves every
// other line untouched.
var ManagedKeyOrder = []string{
	constants.EnvKeyModelID,
	constants.EnvKeyTPSize,
	constants.EnvKeyNumNodes,
	constants.EnvKeyGPUMemFraction,
	constants.EnvKeyReasoningParser,
	constants.EnvKeyToolParser,
	constants.EnvKeyExtraArgs,
}

// EnvFile is a key=value cluster configuration file, preserving comments and
// unrecognized lines verbatim so operator edits survive a model switch.
type EnvFile struct {
	lines []string
}

// LoadEnvFile reads path into an EnvFile. A missing file yields an empty one.
func LoadEnvFile(path string) (*EnvFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &EnvFile{}, nil
		}
		return nil, err
	}
	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return &EnvFile{}, nil
	}
	return &EnvFile{lines: strings.Split(content, "\n")}, nil
}

// Get returns the last value set for key, unquoted, and whether it was set.
func (f *EnvFile) Get(key string) (string, bool) {
	val, found := "", false
	for _, line := range f.lines {
		if k, v, ok := parseEnvLine(line); ok && k == key {
			val, found = v, true
		}
	}
	return val, found
}

// Set removes every line assigning key, then appends a fresh assignment.
func (f *EnvFile) Set(key, value string) {
	f.deleteKey(key)
	f.lines = append(f.lines, formatEnvLine(key, value))
}

// SetGroup applies delete-then-append semantics for a whole key group: all
// existing assignments of the ordered keys are stripped, then the supplied
// values are appended in order. Keys absent from values are only stripped.
// Applying the same group twice leaves exactly one assignment per key.
func (f *EnvFile) SetGroup(order []string, values map[string]string) {
	for _, key := range order {
		f.deleteKey(key)
	}
	for _, key := range order {
		if v, ok := values[key]; ok {
			f.lines = append(f.lines, formatEnvLine(key, v))
		}
	}
}

// Merge overlays other on top of f: pairwise, later file wins. Used for the
// template + local override layering.
func (f *EnvFile) Merge(other *EnvFile) map[string]string {
	merged := map[string]string{}
	for _, line := range f.lines {
		if k, v, ok := parseEnvLine(line); ok {
			merged[k] = v
		}
	}
	for _, line := range other.lines {
		if k, v, ok := parseEnvLine(line); ok {
			merged[k] = v
		}
	}
	return merged
}

// Write persists the file at path with operator-readable permissions.
func (f *EnvFile) Write(path string) error {
	content := strings.Join(f.lines, "\n")
	if content != "" {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), constants.WriteReadReadPerms)
}

// KeyCount returns how many lines assign key.
func (f *EnvFile) KeyCount(key string) int {
	n := 0
	for _, line := range f.lines {
		if k, _, ok := parseEnvLine(line); ok && k == key {
			n++
		}
	}
	return n
}

func (f *EnvFile) deleteKey(key string) {
	kept := make([]string, 0, len(f.lines))
	for _, line := range f.lines {
		if k, _, ok := parseEnvLine(line); ok && k == key {
			continue
		}
		kept = append(kept, line)
	}
	f.lines = kept
}

func parseEnvLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	trimmed = strings.TrimPrefix(trimmed, "export ")
	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(trimmed[:idx])
	value = strings.TrimSpace(trimmed[idx+1:])
	value = strings.Trim(value, `"'`)
	return key, value, true
}

func formatEnvLine(key, value string) string {
	if strings.ContainsAny(value, " \t") || value == "" {
		return fmt.Sprintf("%s=%q", key, value)
	}
	return fmt.Sprintf("%s=%s", key, value)
}
