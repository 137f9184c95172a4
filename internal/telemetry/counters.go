package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// CycleCounters are the otel/metric instruments incremented once per cycle
// stage outcome, so a cycle's stdout-exported metrics snapshot lines up
// with the same cycle's exported trace.
type CycleCounters struct {
	RecordsRead     metric.Int64Counter
	ChunksWritten   metric.Int64Counter
	Duplicates      metric.Int64Counter
	DecisionsFound  metric.Int64Counter
	SessionsWritten metric.Int64Counter
	FilesMoved      metric.Int64Counter
}

// NewCycleCounters registers the cycle counters against meter.
func NewCycleCounters(meter metric.Meter) (*CycleCounters, error) {
	recordsRead, err := meter.Int64Counter("aicf.cycle.records_read")
	if err != nil {
		return nil, fmt.Errorf("creating records_read counter: %w", err)
	}
	chunksWritten, err := meter.Int64Counter("aicf.cycle.chunks_written")
	if err != nil {
		return nil, fmt.Errorf("creating chunks_written counter: %w", err)
	}
	duplicates, err := meter.Int64Counter("aicf.cycle.duplicates_skipped")
	if err != nil {
		return nil, fmt.Errorf("creating duplicates_skipped counter: %w", err)
	}
	decisionsFound, err := meter.Int64Counter("aicf.cycle.decisions_extracted")
	if err != nil {
		return nil, fmt.Errorf("creating decisions_extracted counter: %w", err)
	}
	sessionsWritten, err := meter.Int64Counter("aicf.cycle.sessions_written")
	if err != nil {
		return nil, fmt.Errorf("creating sessions_written counter: %w", err)
	}
	filesMoved, err := meter.Int64Counter("aicf.cycle.files_moved")
	if err != nil {
		return nil, fmt.Errorf("creating files_moved counter: %w", err)
	}

	return &CycleCounters{
		RecordsRead:     recordsRead,
		ChunksWritten:   chunksWritten,
		Duplicates:      duplicates,
		DecisionsFound:  decisionsFound,
		SessionsWritten: sessionsWritten,
		FilesMoved:      filesMoved,
	}, nil
}

// AddRecordsRead increments the records-read counter for ctx's current span.
func (c *CycleCounters) AddRecordsRead(ctx context.Context, n int64) {
	c.RecordsRead.Add(ctx, n)
}
