// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
	"github.com/sparkstack/sparkctl/pkg/models"
	"github.com/sparkstack/sparkctl/pkg/ux"
)

// NodeExecutor is what the launcher needs from a remote node: a short
// liveness probe and shell execution. models.Host satisfies it.
type NodeExecutor interface {
	engine.Runner
	Probe() error
}

// Launcher starts rank 0 locally and ranks 1..N-1 remotely. One launch
// attempt per invocation, no retries at this layer; a failed launch is
// re-driven by re-invoking the whole operation.
type Launcher struct {
	Spec   *ClusterSpec
	Local  engine.Runner
	Remote func(w Worker) NodeExecutor

	// Sleep is injected so tests can collapse the worker grace period.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewLauncher(spec *ClusterSpec) *Launcher {
	return &Launcher{
		Spec:  spec,
		Local: engine.LocalRunner{},
		Remote: func(w Worker) NodeExecutor {
			return models.NewHost(fmt.Sprintf("rank%d", w.Rank), w.MgmtAddr, spec.SSHUser, spec.SSHKeyPath)
		},
		Sleep: sleepCtx,
	}
}

// Launch issues the start command for every node in the spec.
//
// All remotes are liveness-probed before anything starts: a single
// unreachable worker aborts the whole launch so rank 0 never comes up
// against a known-bad topology. Remote launches are then issued in rank
// order as concurrent tasks, joined once all issue commands have returned,
// followed by a fixed grace delay biasing workers towards being mid-init
// (listening for rendezvous) when rank 0 connects.
func (l *Launcher) Launch(ctx context.Context, requests []NodeLaunchRequest) error {
	var local *NodeLaunchRequest
	remotes := []NodeLaunchRequest{}
	for i := range requests {
		if requests[i].Rank == 0 {
			local = &requests[i]
		} else {
			remotes = append(remotes, requests[i])
		}
	}
	if local == nil {
		return fmt.Errorf("no rank 0 launch request in topology")
	}

	executors := make([]NodeExecutor, len(remotes))
	for i, req := range remotes {
		w := Worker{Rank: req.Rank, MgmtAddr: req.MgmtAddr}
		executors[i] = l.Remote(w)
		if err := executors[i].Probe(); err != nil {
			return fmt.Errorf(
				"worker rank %d (%s) failed the ssh liveness probe, aborting launch before any node starts.\n"+
					"Check that the node is powered on and reachable: ssh %s@%s\n%w",
				req.Rank, req.MgmtAddr, l.Spec.SSHUser, req.MgmtAddr, err)
		}
	}

	g, _ := errgroup.WithContext(ctx)
	for i := range remotes {
		req := remotes[i]
		exec := executors[i]
		ux.Logger.PrintToUser("Launching rank %d on %s ...", req.Rank, req.MgmtAddr)
		g.Go(func() error {
			if err := engine.RemoveContainer(exec, constants.ServeContainerName); err != nil {
				return fmt.Errorf("rank %d: reclaiming stale container: %w", req.Rank, err)
			}
			if err := engine.StartContainer(exec, req.Args); err != nil {
				return fmt.Errorf("rank %d: %w", req.Rank, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf(
			"remote launch failed; earlier-started workers are left as-is and will be reclaimed on the next launch.\n%w", err)
	}

	if len(remotes) > 0 {
		ux.Logger.Info("waiting %s for workers to begin initializing", constants.WorkerStartGracePeriod)
		if err := l.Sleep(ctx, constants.WorkerStartGracePeriod); err != nil {
			return err
		}
	}

	ux.Logger.PrintToUser("Launching rank 0 locally ...")
	if err := engine.RemoveContainer(l.Local, constants.ServeContainerName); err != nil {
		return fmt.Errorf("reclaiming stale local container: %w", err)
	}
	if err := engine.StartContainer(l.Local, local.Args); err != nil {
		return fmt.Errorf(
			"local engine start was rejected; check the container daemon with: docker info\n%w", err)
	}
	return nil
}

// Stop reclaims the serving container on every node, local last. Missing
// containers are not errors.
func (l *Launcher) Stop(_ context.Context) error {
	for _, w := range l.Spec.Workers {
		exec := l.Remote(w)
		if err := engine.RemoveContainer(exec, constants.ServeContainerName); err != nil {
			ux.Logger.RedXToUser("rank %d (%s): %s", w.Rank, w.MgmtAddr, err)
		} else {
			ux.Logger.GreenCheckmarkToUser("rank %d (%s) stopped", w.Rank, w.MgmtAddr)
		}
	}
	if err := engine.RemoveContainer(l.Local, constants.ServeContainerName); err != nil {
		return fmt.Errorf("stopping local container: %w", err)
	}
	ux.Logger.GreenCheckmarkToUser("rank 0 (local) stopped")
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
