// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"strconv"
	"strings"
)

// ContainerState is the observed status of the serving container.
type ContainerState string

const (
	StateRunning    ContainerState = "running"
	StateRestarting ContainerState = "restarting"
	StateCreated    ContainerState = "created"
	StatePaused     ContainerState = "paused"
	StateExited     ContainerState = "exited"
	StateDead       ContainerState = "dead"
	StateNotFound   ContainerState = "not_found"
)

// Terminal reports whether the state is a definitive end state of the
// container (as opposed to transient or unknown).
func (s ContainerState) Terminal() bool {
	return s == StateExited || s == StateDead
}

// ContainerStatus is one observation of the monitored container.
type ContainerStatus struct {
	State    ContainerState
	ExitCode int
}

// ParseInspectOutput parses `docker inspect -f '{{.State.Status}} {{.State.ExitCode}}'`
// output. A "No such object" error output maps to StateNotFound.
func ParseInspectOutput(out string, inspectErr error) ContainerStatus {
	if inspectErr != nil || strings.Contains(out, "No such object") || strings.Contains(out, "No such container") {
		return ContainerStatus{State: StateNotFound}
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) == 0 {
		return ContainerStatus{State: StateNotFound}
	}
	status := ContainerStatus{State: ContainerState(fields[0])}
	switch status.State {
	case StateRunning, StateRestarting, StateCreated, StatePaused, StateExited, StateDead:
	default:
		// unknown docker status string, treat as transient
		status.State = StateCreated
	}
	if len(fields) > 1 {
		if code, err := strconv.Atoi(fields[1]); err == nil {
			status.ExitCode = code
		}
	}
	return status
}
