// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"strings"
)

// Filter returns the elements of vs for which pred is true, preserving order.
func Filter[T any](vs []T, pred func(T) bool) []T {
	filtered := []T{}
	for _, v := range vs {
		if pred(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// Map applies f to every element of vs.
func Map[T, U any](vs []T, f func(T) U) []U {
	mapped := make([]U, 0, len(vs))
	for _, v := range vs {
		mapped = append(mapped, f(v))
	}
	return mapped
}

// Belongs reports whether e is present in vs.
func Belongs[T comparable](vs []T, e T) bool {
	for _, v := range vs {
		if v == e {
			return true
		}
	}
	return false
}

// SplitFields splits a whitespace-separated token list, dropping empty tokens.
// Cluster env files store address lists this way.
func SplitFields(s string) []string {
	return strings.Fields(s)
}

// LastLines returns the last n non-empty lines of s joined by newlines.
func LastLines(s string, n int) string {
	lines := Filter(strings.Split(strings.TrimSpace(s), "\n"), func(l string) bool {
		return strings.TrimSpace(l) != ""
	})
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
