// Package sources defines the single SourceReader capability set every
// per-platform reader implements (spec.md §9: "Duck-typed parser interface
// becomes a single SourceReader capability set"), plus the shared error
// kinds and read statistics every reader reports.
package sources

import (
	"context"
	"errors"
	"time"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/project"
)

// Reader is the capability every per-source implementation provides. There
// is exactly one variant per platform (augment, claudecli, claudedesktop,
// warp); no reader implements more than this.
type Reader interface {
	// Source identifies which platform this reader serves.
	Source() aicf.Source

	// Available reports whether this platform's store is present on this
	// machine at all (e.g. the expected directory exists), independent of
	// whether any record in it belongs to the current workspace.
	Available() bool

	// ReadAll snapshots the foreign store, enumerates its records, and
	// filters them to ws by exact workspace-name match. It never mutates
	// the foreign store.
	ReadAll(ctx context.Context, ws *project.Workspace) ([]aicf.RawRecord, ReadStats, error)
}

// ReadStats reports counts a reader could only compute accurately while it
// still held the raw record stream — the per-cycle diagnostic line needs
// these, and recomputing "filtered" from the returned slice alone would
// lose it once filtering has already happened.
type ReadStats struct {
	RecordsSeen     int
	RecordsSkipped  int // unparseable; logged and skipped, never fatal
	RecordsFiltered int // parsed but excluded by workspace filter
}

// Error kinds distinguished by spec.md §7. A closed sum type: every reader
// failure is one of these four.
var (
	// ErrSourceUnavailable means the platform is not installed on this
	// machine; the reader is skipped silently for the cycle.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceLocked means the snapshot copy succeeded but the foreign
	// database could not be opened within OpenTimeout.
	ErrSourceLocked = errors.New("source locked")

	// ErrSourceCorrupt means 50% or more of the records in this source
	// failed to parse; the whole source is aborted for the cycle.
	ErrSourceCorrupt = errors.New("source corrupt")
)

// OpenTimeout bounds how long a reader may wait for a foreign database open
// (spec.md §5: "5s cap on database opens").
const OpenTimeout = 5 * time.Second

// MaterializeTimeout bounds a single cache-to-AICF materialization
// (spec.md §5: "30s cap on a single cache-to-AICF materialization").
const MaterializeTimeout = 30 * time.Second

// CorruptThreshold is the fraction of unparseable records at which a
// source is aborted outright rather than having individual records skipped.
const CorruptThreshold = 0.5
