package adminserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aicf-dev/aicf/internal/cycle"
)

// Metrics is the prometheus.Registry SPEC_FULL.md §6 calls for:
// per-cycle counters for records read, chunks written, duplicates
// skipped, decisions extracted, sessions written, and files moved,
// plus a vector of per-ErrorKind error counts.
type Metrics struct {
	registry        *prometheus.Registry
	recordsRead     prometheus.Counter
	chunksWritten   prometheus.Counter
	duplicates      prometheus.Counter
	decisionsFound  prometheus.Counter
	sessionsWritten prometheus.Counter
	filesMoved      prometheus.Counter
	errors          *prometheus.CounterVec
}

// NewMetrics builds and registers the counter set against a fresh
// registry (never the global default, so this admin surface never
// picks up metrics registered by an unrelated package).
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicf_cycle_records_read_total",
			Help: "Total records read across all sources.",
		}),
		chunksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicf_cycle_chunks_written_total",
			Help: "Total chunks materialized into the content-addressed cache.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicf_cycle_duplicates_skipped_total",
			Help: "Total records skipped as duplicates.",
		}),
		decisionsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicf_cycle_decisions_extracted_total",
			Help: "Total decisions extracted by the rule-based analyzers.",
		}),
		sessionsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicf_cycle_sessions_written_total",
			Help: "Total per-day session files written.",
		}),
		filesMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aicf_cycle_files_moved_total",
			Help: "Total session files aged across a dropoff tier boundary.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aicf_cycle_errors_total",
			Help: "Total cycle errors by kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.recordsRead,
		m.chunksWritten,
		m.duplicates,
		m.decisionsFound,
		m.sessionsWritten,
		m.filesMoved,
		m.errors,
	)
	return m
}

// Registry returns the registry the /metrics handler serves.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe folds one cycle's summary into the counters.
func (m *Metrics) Observe(s cycle.Summary) {
	m.recordsRead.Add(float64(s.RecordsRead))
	m.chunksWritten.Add(float64(s.ChunksWritten))
	m.duplicates.Add(float64(s.Duplicates))
	m.decisionsFound.Add(float64(s.DecisionsFound))
	m.sessionsWritten.Add(float64(s.SessionsWritten))
	m.filesMoved.Add(float64(s.FilesMoved))
	for kind, n := range s.Errors {
		m.errors.WithLabelValues(string(kind)).Add(float64(n))
	}
}
