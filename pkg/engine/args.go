// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"fmt"
	"strings"
)

// RunArgs builds a `docker run` invocation as structured flag/value pairs,
// serialized to text only at the invocation boundary so tests can assert on
// the structure instead of a concatenated string.
type RunArgs struct {
	Image      string
	Command    []string
	pairs      [][2]string
	singletons []string
}

func NewRunArgs(image string) *RunArgs {
	return &RunArgs{Image: image}
}

// Flag appends a bare flag, e.g. --rm.
func (r *RunArgs) Flag(name string) *RunArgs {
	r.singletons = append(r.singletons, name)
	return r
}

// FlagValue appends a flag with a value, e.g. --name spark-vllm.
func (r *RunArgs) FlagValue(name, value string) *RunArgs {
	r.pairs = append(r.pairs, [2]string{name, value})
	return r
}

func (r *RunArgs) Env(key, value string) *RunArgs {
	return r.FlagValue("-e", fmt.Sprintf("%s=%s", key, value))
}

func (r *RunArgs) Volume(host, container string) *RunArgs {
	return r.FlagValue("-v", fmt.Sprintf("%s:%s", host, container))
}

func (r *RunArgs) WithCommand(args ...string) *RunArgs {
	r.Command = append(r.Command, args...)
	return r
}

// Args returns the full argument vector after "docker".
func (r *RunArgs) Args() []string {
	args := []string{"run"}
	args = append(args, r.singletons...)
	for _, p := range r.pairs {
		args = append(args, p[0], p[1])
	}
	args = append(args, r.Image)
	args = append(args, r.Command...)
	return args
}

// String serializes the invocation for a remote shell. Values containing
// whitespace are quoted.
func (r *RunArgs) String() string {
	quoted := make([]string, 0, len(r.Args())+1)
	quoted = append(quoted, "docker")
	for _, a := range r.Args() {
		if strings.ContainsAny(a, " \t\"'") {
			quoted = append(quoted, fmt.Sprintf("%q", a))
		} else {
			quoted = append(quoted, a)
		}
	}
	return strings.Join(quoted, " ")
}
