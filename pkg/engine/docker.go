// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

// Runner abstracts where a docker command executes: models.Host runs it over
// SSH, LocalRunner runs it on this machine. Both return combined output.
type Runner interface {
	Command(script string, env []string, timeout time.Duration) ([]byte, error)
}

// LocalRunner executes shell programs on the local machine.
type LocalRunner struct{}

func (LocalRunner) Command(script string, env []string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}
	return cmd.CombinedOutput()
}

// RemoveContainer force-removes a same-named container if one exists.
// Removal of a missing container is not an error (idempotent restart).
func RemoveContainer(r Runner, name string) error {
	script := fmt.Sprintf("docker rm -f %s >/dev/null 2>&1 || true", name)
	_, err := r.Command(script, nil, constants.ContainerTeardownTimeout)
	return err
}

// InspectContainer observes the container's status and recorded exit code.
func InspectContainer(r Runner, name string) ContainerStatus {
	script := fmt.Sprintf("docker inspect -f '{{.State.Status}} {{.State.ExitCode}}' %s 2>&1", name)
	out, err := r.Command(script, nil, constants.ContainerInspectTimeout)
	return ParseInspectOutput(string(out), err)
}

// TailLogs returns the last n log lines of the container.
func TailLogs(r Runner, name string, n int) (string, error) {
	script := fmt.Sprintf("docker logs --tail %d %s 2>&1", n, name)
	out, err := r.Command(script, nil, constants.ContainerInspectTimeout)
	return string(out), err
}

// PullImage pulls the serving image ahead of the run so launch failures
// separate "image unavailable" from "engine failed to start".
func PullImage(r Runner, image string) error {
	script := fmt.Sprintf("docker pull %s", image)
	if out, err := r.Command(script, nil, constants.ImagePullTimeout); err != nil {
		return fmt.Errorf("pulling %s: %w: %s", image, err, string(out))
	}
	return nil
}

// StartContainer issues the detached run built from args.
func StartContainer(r Runner, args *RunArgs) error {
	if out, err := r.Command(args.String(), nil, constants.SSHScriptTimeout); err != nil {
		return fmt.Errorf("starting container: %w: %s", err, string(out))
	}
	return nil
}
