// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkstack/sparkctl/pkg/constants"
	"github.com/sparkstack/sparkctl/pkg/engine"
)

// Verdict is the terminal outcome of a readiness wait.
type Verdict string

const (
	// VerdictReady: the health endpoint answered, the cluster is serviceable.
	VerdictReady Verdict = "ready"
	// VerdictFailed: the serving process was observed crashed, or the
	// monitoring target stayed gone past the failure ceiling. Hard failure.
	VerdictFailed Verdict = "failed"
	// VerdictTimedOut: the time budget ran out with the process still
	// alive. Soft failure: started but not yet confirmed ready.
	VerdictTimedOut Verdict = "timed_out"
	// VerdictCanceled: the wait was canceled through the context.
	VerdictCanceled Verdict = "canceled"
)

var (
	ErrProcessExited   = errors.New("serving process exited")
	ErrMonitorVanished = errors.New("monitoring target kept disappearing")
)

// PollConfig bounds the readiness wait.
type PollConfig struct {
	// BudgetTicks is the overall budget; one tick per Interval.
	BudgetTicks int
	// FailureCeiling is how many consecutive bad observations are tolerated
	// before the wait hard-fails, independent of the remaining budget.
	FailureCeiling int
	// ProgressEvery surfaces a one-line log excerpt every this many ticks.
	ProgressEvery int
	Interval      time.Duration
	// FatalOnCleanExit treats an exit-code-0 termination during the wait as
	// an immediate failure instead of a soft, counted one.
	FatalOnCleanExit bool
}

func DefaultPollConfig(multiNode bool) PollConfig {
	budget := constants.SingleNodeReadyBudget
	if multiNode {
		budget = constants.MultiNodeReadyBudget
	}
	return PollConfig{
		BudgetTicks:    budget,
		FailureCeiling: constants.PollFailureCeiling,
		ProgressEvery:  constants.PollProgressEvery,
		Interval:       constants.PollInterval,
	}
}

// Probes supplies the poller's view of the world.
type Probes struct {
	// Health is the external readiness signal; success ends the wait.
	Health func(ctx context.Context) bool
	// Status observes the local serving container.
	Status func(ctx context.Context) engine.ContainerStatus
	// LogExcerpt returns a one-line progress excerpt; may be nil.
	LogExcerpt func(ctx context.Context) string
}

// PollResult is the terminal state of one readiness wait.
type PollResult struct {
	Verdict  Verdict
	Ticks    int
	ExitCode int
	Failures int
	Err      error
}

// Poller drives the readiness wait. The tick order per iteration:
// health probe, then container status, then the failure-ceiling and budget
// checks. A "running" observation always resets the consecutive-failure
// counter, so a flapping monitor never accumulates into a failure while the
// process itself stays alive.
type Poller struct {
	cfg    PollConfig
	probes Probes
	sleep  func(ctx context.Context, d time.Duration) error
	// OnProgress receives the periodic excerpt; defaults to a no-op.
	OnProgress func(excerpt string)
}

// Sleep is the injectable wait primitive, replaced in tests.
type Sleep func(ctx context.Context, d time.Duration) error

func NewPoller(cfg PollConfig, probes Probes) *Poller {
	return &Poller{
		cfg:        cfg,
		probes:     probes,
		sleep:      sleepCtx,
		OnProgress: func(string) {},
	}
}

// WithSleep replaces the inter-tick wait, for deterministic tests.
func (p *Poller) WithSleep(sleep Sleep) *Poller {
	p.sleep = sleep
	return p
}

// Wait polls until a terminal verdict is reached.
func (p *Poller) Wait(ctx context.Context) PollResult {
	failures := 0
	for tick := 1; ; tick++ {
		if p.probes.Health(ctx) {
			return PollResult{Verdict: VerdictReady, Ticks: tick}
		}

		status := p.probes.Status(ctx)
		switch {
		case status.State.Terminal() && status.ExitCode != 0:
			return PollResult{
				Verdict:  VerdictFailed,
				Ticks:    tick,
				ExitCode: status.ExitCode,
				Failures: failures,
				Err: fmt.Errorf("%w with code %d; inspect with: docker logs %s",
					ErrProcessExited, status.ExitCode, constants.ServeContainerName),
			}
		case status.State.Terminal():
			// clean exit during startup is ambiguous: by default it only
			// counts towards the failure ceiling
			if p.cfg.FatalOnCleanExit {
				return PollResult{
					Verdict:  VerdictFailed,
					Ticks:    tick,
					Failures: failures,
					Err: fmt.Errorf("%w cleanly before becoming ready; inspect with: docker logs %s",
						ErrProcessExited, constants.ServeContainerName),
				}
			}
			failures++
		case status.State == engine.StateNotFound:
			failures++
		default:
			failures = 0
		}

		if failures >= p.cfg.FailureCeiling {
			return PollResult{
				Verdict:  VerdictFailed,
				Ticks:    tick,
				Failures: failures,
				Err: fmt.Errorf("%w for %d consecutive checks; inspect with: docker ps -a",
					ErrMonitorVanished, failures),
			}
		}
		if tick >= p.cfg.BudgetTicks {
			return PollResult{Verdict: VerdictTimedOut, Ticks: tick, Failures: failures}
		}
		if p.cfg.ProgressEvery > 0 && tick%p.cfg.ProgressEvery == 0 && p.probes.LogExcerpt != nil {
			p.OnProgress(p.probes.LogExcerpt(ctx))
		}
		if err := p.sleep(ctx, p.cfg.Interval); err != nil {
			return PollResult{Verdict: VerdictCanceled, Ticks: tick, Failures: failures, Err: err}
		}
	}
}
