// Package consolidation implements the Cache Consolidation Agent
// (spec.md §4.6): it enumerates cache chunks, skips ones already
// materialized (by contentHash), runs the analysis orchestrator over the
// rest, and writes the resulting AICF/MD pair before deleting the chunk.
package consolidation

import (
	"fmt"
	"sort"

	"github.com/aicf-dev/aicf/internal/analysis"
	"github.com/aicf-dev/aicf/internal/cachestore"
	"github.com/aicf-dev/aicf/internal/memoryfile"
)

// Result summarizes one run of the agent, for the per-cycle diagnostic
// line (spec.md §7).
type Result struct {
	Materialized       int
	Duplicates         int
	Failed             int
	DecisionsExtracted int
}

// Agent runs the Cache Consolidation algorithm against one source's
// chunk store. One Agent is built per source, matching the one
// Store-per-source-directory layout of internal/cachestore.
type Agent struct {
	Store        *cachestore.Store
	Orchestrator *analysis.Orchestrator
	Writer       *memoryfile.Writer

	// KnownHashes is the set of contentHash values already materialized
	// as AICF files, loaded once per cycle by the caller (spec.md §5:
	// "loaded once per cycle").
	KnownHashes map[string]bool
}

// NewAgent builds a consolidation Agent. knownHashes must not be nil.
func NewAgent(store *cachestore.Store, orchestrator *analysis.Orchestrator, writer *memoryfile.Writer, knownHashes map[string]bool) *Agent {
	return &Agent{Store: store, Orchestrator: orchestrator, Writer: writer, KnownHashes: knownHashes}
}

// Run materializes every un-materialized chunk in ascending chunkId
// order, per spec.md §4.6's determinism requirement.
func (a *Agent) Run() (Result, error) {
	var result Result

	chunks, err := a.Store.List()
	if err != nil {
		return result, fmt.Errorf("listing cache chunks: %w", err)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkID < chunks[j].ChunkID })

	seenThisRun := map[string]bool{}

	for _, chunk := range chunks {
		if a.KnownHashes[chunk.ContentHash] || seenThisRun[chunk.ContentHash] {
			result.Duplicates++
			if err := a.Store.Delete(chunk.ChunkID); err != nil {
				result.Failed++
			}
			continue
		}

		if len(chunk.Messages) == 0 {
			// A chunk with no reconstructable turns is left in the cache
			// for retry next cycle, per spec.md §4.6's per-chunk failure
			// semantics; it is not deleted.
			result.Failed++
			continue
		}

		analyzed := a.Orchestrator.Analyze(chunk.ConversationID, chunk.Source, chunk.Messages)
		if analyzed.Timestamp.IsZero() {
			analyzed.Timestamp = chunk.Timestamp
		}

		if _, _, err := a.Writer.Write(analyzed); err != nil {
			result.Failed++
			continue
		}

		seenThisRun[chunk.ContentHash] = true
		a.KnownHashes[chunk.ContentHash] = true

		if err := a.Store.Delete(chunk.ChunkID); err != nil {
			return result, fmt.Errorf("deleting materialized chunk %d: %w", chunk.ChunkID, err)
		}
		result.Materialized++
		result.DecisionsExtracted += len(analyzed.Decisions)
	}

	return result, nil
}
