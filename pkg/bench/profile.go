// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bench

import (
	"fmt"
	"sort"
	"strings"
)

// Profile is one fixed-shape synthetic load test.
type Profile struct {
	Name        string
	NumPrompts  int
	InputLen    int
	OutputLen   int
	RequestRate float64 // 0 means unbounded (send as fast as concurrency allows)
	Concurrency int
}

var profiles = map[string]Profile{
	"quick":      {Name: "quick", NumPrompts: 20, InputLen: 128, OutputLen: 128, Concurrency: 4},
	"short":      {Name: "short", NumPrompts: 100, InputLen: 256, OutputLen: 256, Concurrency: 8},
	"medium":     {Name: "medium", NumPrompts: 300, InputLen: 512, OutputLen: 512, Concurrency: 16},
	"long":       {Name: "long", NumPrompts: 500, InputLen: 2048, OutputLen: 1024, Concurrency: 16},
	"throughput": {Name: "throughput", NumPrompts: 1000, InputLen: 512, OutputLen: 256, Concurrency: 64},
	"latency":    {Name: "latency", NumPrompts: 100, InputLen: 512, OutputLen: 256, RequestRate: 1, Concurrency: 1},
	"stress":     {Name: "stress", NumPrompts: 2000, InputLen: 1024, OutputLen: 512, Concurrency: 128},
}

// LookupProfile resolves a named profile token. "custom" starts from the
// short profile and expects explicit overrides.
func LookupProfile(name string) (Profile, error) {
	if name == "custom" {
		p := profiles["short"]
		p.Name = "custom"
		return p, nil
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown benchmark profile %q, valid profiles: %s", name, strings.Join(ProfileNames(), "|"))
	}
	return p, nil
}

// ProfileNames lists the known profile tokens, sorted, plus custom.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles)+1)
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, "custom")
}
