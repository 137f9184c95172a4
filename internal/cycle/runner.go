// Package cycle implements the polling cycle runner (spec.md §5): it
// acquires the project's exclusive watcher lock, fans reads out across the
// enabled sources in parallel (rate-limited one-token-per-source), caches
// what each reader returns, runs the Cache Consolidation, Session
// Consolidation, and Memory Dropoff agents in sequence, and emits one
// structured summary log line and trace span per cycle.
//
// Cancellation is cycle-boundary-only, per spec.md §5: a context canceled
// mid-stage is still let to finish that stage; the next stage checks
// ctx.Err() before starting. Nothing here cancels a reader or an agent
// mid-flight.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/analysis"
	"github.com/aicf-dev/aicf/internal/cachestore"
	"github.com/aicf-dev/aicf/internal/config"
	"github.com/aicf-dev/aicf/internal/consolidation"
	"github.com/aicf-dev/aicf/internal/dropoff"
	"github.com/aicf-dev/aicf/internal/lock"
	"github.com/aicf-dev/aicf/internal/memoryfile"
	"github.com/aicf-dev/aicf/internal/permission"
	"github.com/aicf-dev/aicf/internal/project"
	"github.com/aicf-dev/aicf/internal/redact"
	"github.com/aicf-dev/aicf/internal/session"
	"github.com/aicf-dev/aicf/internal/sources"
)

// Summary is what one cycle reports: stage outcomes plus a per-ErrorKind
// tally, the shape the per-cycle zap log line and otel counters both draw
// from.
type Summary struct {
	Started         time.Time
	Duration        time.Duration
	RecordsRead     int
	ChunksWritten   int
	Duplicates      int
	DecisionsFound  int
	SessionsWritten int
	FilesMoved      int
	Errors          map[ErrorKind]int
	Skipped         bool // true if the lock could not be acquired
}

// Runner owns everything one project's cycles need across repeated ticks:
// the resolved workspace, the known set of readers, and the telemetry
// instruments registered once and reused every cycle.
type Runner struct {
	ProjectRoot string
	Workspace   *project.Workspace
	Readers     []sources.Reader
	Logger      *zap.Logger
	Tracer      trace.Tracer
	Counters    CycleCounters
}

// CycleCounters mirrors internal/telemetry.CycleCounters's field set; the
// runner takes it as an interface-shaped dependency so tests can pass a
// no-op implementation without standing up a real MeterProvider.
type CycleCounters interface {
	AddRecordsRead(ctx context.Context, n int64)
}

// NewRunner builds a Runner for projectRoot, resolving its workspace
// identity and constructing one reader per source.
func NewRunner(projectRoot string, logger *zap.Logger, tracer trace.Tracer, counters CycleCounters, readers []sources.Reader) (*Runner, error) {
	ws, err := project.Resolve(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}
	return &Runner{
		ProjectRoot: projectRoot,
		Workspace:   ws,
		Readers:     readers,
		Logger:      logger,
		Tracer:      tracer,
		Counters:    counters,
	}, nil
}

// RunOnce executes exactly one cycle: acquire lock, read, consolidate,
// summarize session files, age session files through the dropoff tiers,
// release lock. A lock acquisition failure is reported as a skipped cycle,
// not an error — spec.md §7 names this a silent-exit condition.
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	summary := Summary{Started: time.Now(), Errors: map[ErrorKind]int{}}

	ctx, span := r.Tracer.Start(ctx, "aicf.cycle")
	defer span.End()

	aicfDir := filepath.Join(r.ProjectRoot, ".aicf")
	if err := os.MkdirAll(aicfDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating %s: %w", aicfDir, err)
	}

	l, err := lock.Acquire(aicfDir)
	if err != nil {
		summary.Skipped = true
		summary.Errors[ErrorConcurrencyViolation]++
		r.Logger.Info("cycle skipped, lock held by another run", zap.Error(err))
		span.SetStatus(codes.Ok, "skipped: lock held")
		return summary, nil
	}
	defer func() {
		if rerr := l.Release(); rerr != nil {
			r.Logger.Warn("releasing watcher lock", zap.Error(rerr))
		}
	}()

	watcherCfg, err := config.LoadWatcherConfig(aicfDir)
	if err != nil {
		return summary, fmt.Errorf("loading watcher config: %w", err)
	}
	granted, err := permission.Open(aicfDir).Granted()
	if err != nil {
		return summary, fmt.Errorf("loading permission grants: %w", err)
	}

	cacheRoot := filepath.Join(r.ProjectRoot, ".cache")

	if err := r.readStage(ctx, cacheRoot, watcherCfg, granted, &summary); err != nil {
		return summary, err
	}
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}

	if err := r.consolidateStage(cacheRoot, &summary); err != nil {
		return summary, err
	}
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}

	if err := r.sessionStage(&summary); err != nil {
		return summary, err
	}
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}

	if err := r.dropoffStage(&summary); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(summary.Started)
	r.Counters.AddRecordsRead(ctx, int64(summary.RecordsRead))
	r.logSummary(summary)
	return summary, nil
}

// readStage fans reads out across enabled, granted sources in parallel,
// bounded by a token-bucket rate limiter with burst equal to the number of
// readers, then writes every returned record into that source's cache
// store.
func (r *Runner) readStage(ctx context.Context, cacheRoot string, watcherCfg config.WatcherConfig, granted map[aicf.Source]bool, summary *Summary) error {
	limiter := rate.NewLimiter(rate.Limit(len(r.Readers)), len(r.Readers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, reader := range r.Readers {
		reader := reader
		if !watcherCfg.IsEnabled(reader.Source()) || !granted[reader.Source()] {
			continue
		}
		if !reader.Available() {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			records, stats, err := reader.ReadAll(ctx, r.Workspace)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				r.Logger.Warn("source read failed", zap.String("source", string(reader.Source())), zap.Error(err))
				summary.Errors[classifyReadError(err)]++
				return
			}
			summary.RecordsRead += stats.RecordsSeen

			store, err := cachestore.Open(cachestore.SourceDir(cacheRoot, reader.Source()))
			if err != nil {
				r.Logger.Warn("opening cache store failed", zap.String("source", string(reader.Source())), zap.Error(err))
				summary.Errors[ErrorIOFatal]++
				return
			}
			for _, rec := range records {
				result, err := store.Write(rec)
				if err != nil {
					r.Logger.Warn("cache write failed", zap.String("source", string(reader.Source())), zap.Error(err))
					summary.Errors[ErrorIOFatal]++
					continue
				}
				if result.Duplicate {
					summary.Duplicates++
					continue
				}
				summary.ChunksWritten++
			}
		}()
	}
	wg.Wait()
	return nil
}

func classifyReadError(err error) ErrorKind {
	switch {
	case errors.Is(err, sources.ErrSourceUnavailable):
		return ErrorUnavailable
	case errors.Is(err, sources.ErrSourceLocked):
		return ErrorLocked
	case errors.Is(err, sources.ErrSourceCorrupt):
		return ErrorCorruptSource
	default:
		return ErrorIOFatal
	}
}

// consolidateStage runs the Cache Consolidation Agent once per enabled
// source, since each source owns its own cache subdirectory.
func (r *Runner) consolidateStage(cacheRoot string, summary *Summary) error {
	scrubber, err := redact.New()
	if err != nil {
		return fmt.Errorf("building secret scrubber: %w", err)
	}
	writer := memoryfile.New(r.ProjectRoot, scrubber)
	orchestrator := analysis.New()
	aicfDir := filepath.Join(r.ProjectRoot, ".aicf")

	for _, source := range aicf.KnownSources {
		store, err := cachestore.Open(cachestore.SourceDir(cacheRoot, source))
		if err != nil {
			return fmt.Errorf("opening cache store for %s: %w", source, err)
		}

		// KnownHashes must span every prior cycle, not just chunks still
		// sitting in the cache — cachestore.Store's own dedup set is
		// rebuilt from the directory listing at Open and loses a hash the
		// moment its chunk is deleted post-materialization. Loaded once
		// here, handed to the Agent (which adds to it as it materializes),
		// and saved back below.
		hashIndexPath := consolidation.HashIndexPath(aicfDir, source)
		knownHashes, err := consolidation.LoadKnownHashes(hashIndexPath)
		if err != nil {
			return fmt.Errorf("loading known hashes for %s: %w", source, err)
		}

		agent := consolidation.NewAgent(store, orchestrator, writer, knownHashes)
		result, err := agent.Run()
		if err != nil {
			return fmt.Errorf("consolidating %s: %w", source, err)
		}
		if err := consolidation.SaveKnownHashes(hashIndexPath, knownHashes); err != nil {
			return fmt.Errorf("saving known hashes for %s: %w", source, err)
		}

		summary.DecisionsFound += result.DecisionsExtracted
		summary.Duplicates += result.Duplicates
		if result.Failed > 0 {
			summary.Errors[ErrorCorruptRecord] += result.Failed
		}
	}
	return nil
}

func (r *Runner) sessionStage(summary *Summary) error {
	result, err := session.NewAgent(r.ProjectRoot).Run()
	if err != nil {
		return fmt.Errorf("session consolidation: %w", err)
	}
	summary.SessionsWritten += result.DaysWritten
	summary.Duplicates += result.Duplicates
	return nil
}

func (r *Runner) dropoffStage(summary *Summary) error {
	result, err := dropoff.NewAgent(r.ProjectRoot).Run()
	if err != nil {
		return fmt.Errorf("memory dropoff: %w", err)
	}
	summary.FilesMoved += result.FullToSummary + result.SummaryToKey + result.KeyToSingleLine
	return nil
}

func (r *Runner) logSummary(s Summary) {
	kinds := make([]string, 0, len(s.Errors))
	for k := range s.Errors {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	fields := []zap.Field{
		zap.Duration("duration", s.Duration),
		zap.Int("records_read", s.RecordsRead),
		zap.Int("chunks_written", s.ChunksWritten),
		zap.Int("duplicates", s.Duplicates),
		zap.Int("decisions_found", s.DecisionsFound),
		zap.Int("sessions_written", s.SessionsWritten),
		zap.Int("files_moved", s.FilesMoved),
	}
	for _, k := range kinds {
		fields = append(fields, zap.Int("errors."+k, s.Errors[ErrorKind(k)]))
	}
	r.Logger.Info("cycle completed", fields...)
}
