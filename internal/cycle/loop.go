package cycle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/aicf-dev/aicf/internal/config"
)

// Loop drives repeated cycles at the interval named by the project's
// WatcherConfig, waking early (without running a cycle) whenever
// ConfigWatcher reports an edit, so a changed interval or permission grant
// is picked up without waiting out a stale tick.
type Loop struct {
	Runner        *Runner
	ConfigWatcher *ConfigWatcher

	// OnCycle, if set, is called after every RunOnce (including skipped and
	// failed ones) with that cycle's summary and error. cmd/aicf's
	// --admin-addr wiring uses this to feed internal/adminserver without
	// this package depending on it.
	OnCycle func(Summary, error)
}

// NewLoop builds a Loop for runner, watching runner.ProjectRoot/.aicf for
// config edits.
func NewLoop(runner *Runner) (*Loop, error) {
	aicfDir := filepath.Join(runner.ProjectRoot, ".aicf")
	cw, err := NewConfigWatcher(aicfDir)
	if err != nil {
		return nil, err
	}
	return &Loop{Runner: runner, ConfigWatcher: cw}, nil
}

// Run blocks, running cycles until ctx is canceled. Cancellation only takes
// effect between cycles or while waiting for the next tick — a cycle
// already in progress always runs to completion (spec.md §5).
func (l *Loop) Run(ctx context.Context) error {
	defer l.ConfigWatcher.Close()

	aicfDir := filepath.Join(l.Runner.ProjectRoot, ".aicf")
	for {
		watcherCfg, err := config.LoadWatcherConfig(aicfDir)
		if err != nil {
			return fmt.Errorf("loading watcher config: %w", err)
		}
		interval := time.Duration(watcherCfg.PollingIntervalMs) * time.Millisecond
		sched, err := NewSchedule(interval)
		if err != nil {
			return fmt.Errorf("building schedule: %w", err)
		}

		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-l.ConfigWatcher.Changed():
			// Config changed mid-wait: drop this timer and rebuild the
			// schedule from the freshly written interval next loop
			// iteration, without running an unscheduled cycle.
			timer.Stop()
			continue
		case <-timer.C:
		}

		summary, err := l.Runner.RunOnce(ctx)
		if err != nil {
			l.Runner.Logger.Error("cycle failed", zap.Error(err))
		}
		if l.OnCycle != nil {
			l.OnCycle(summary, err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
