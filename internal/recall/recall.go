// Package recall implements the supplemental semantic reload query
// (SPEC_FULL.md, "SUPPLEMENTAL MODULE: Recall"): a local chromem-go
// index built purely from the decision and title/summary text already
// present in sessions/, medium/ and old/ files, queried by
// `aicf recall <query>`. It never reads a live foreign source and is
// never consulted by the ingestion pipeline itself — rebuilding or
// deleting this index changes nothing about what consolidation,
// session grouping or dropoff do.
package recall

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/aicf-dev/aicf/internal/dropoff"
	"github.com/aicf-dev/aicf/internal/sanitize"
)

// indexedTiers are the tiers this package reads text from. archive/
// carries only a TIMESTAMP|TITLE line per conversation with no parser
// of its own (see internal/dropoff's doc comment) and nothing left to
// search beyond the title already captured from old/ before the
// conversation aged that far, so it is not indexed separately.
var indexedTiers = []string{"sessions", "medium", "old"}

// Hit is one ranked result from Query.
type Hit struct {
	SessionFile string
	Timestamp   time.Time
	Title       string
	Score       float32
}

// Stats summarizes one Reindex call.
type Stats struct {
	FilesRead   int
	RowsIndexed int
	RowsSkipped int
}

// Index wraps a persistent chromem-go database rooted at a project's
// .aicf directory.
type Index struct {
	projectRoot    string
	collectionName string
	db             *chromem.DB
	vectorizer     *HashedNGramVectorizer
}

// NewIndex opens (creating if absent) the chromem-go database under
// projectRoot/.aicf/recall-index. The collection name is derived from
// the project directory's basename via sanitize.CollectionName, so a
// name containing characters chromem rejects (spaces, dots, anything
// outside [a-z0-9_]) still produces a valid collection rather than a
// runtime error.
func NewIndex(projectRoot string) (*Index, error) {
	dir := filepath.Join(projectRoot, ".aicf", "recall-index")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("opening recall index: %w", err)
	}
	name := sanitize.CollectionName("aicf", filepath.Base(projectRoot), "sessions")
	return &Index{projectRoot: projectRoot, collectionName: name, db: db, vectorizer: NewHashedNGramVectorizer()}, nil
}

// Reindex drops and rebuilds the index from every row in sessions/,
// medium/, and old/. The index is a cache: this is safe to run at any
// time and changes nothing else in the project.
func (idx *Index) Reindex(ctx context.Context) (Stats, error) {
	var stats Stats

	_ = idx.db.DeleteCollection(idx.collectionName)
	collection, err := idx.db.GetOrCreateCollection(idx.collectionName, nil, idx.vectorizer.AsChromemFunc())
	if err != nil {
		return stats, fmt.Errorf("creating recall collection: %w", err)
	}

	var docs []chromem.Document
	for _, tier := range indexedTiers {
		tierDir := filepath.Join(idx.projectRoot, ".aicf", tier)
		entries, err := os.ReadDir(tierDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return stats, fmt.Errorf("reading %s: %w", tierDir, err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(tierDir, name))
			if err != nil {
				stats.RowsSkipped++
				continue
			}
			stats.FilesRead++

			var rows []dropoff.Row
			if tier == "old" {
				rows = dropoff.ParseKeyPointsRows(string(data))
			} else {
				rows = dropoff.ParseFullRows(string(data))
			}

			for i, r := range rows {
				text := indexText(r)
				if text == "" {
					stats.RowsSkipped++
					continue
				}
				docs = append(docs, chromem.Document{
					ID:      fmt.Sprintf("%s/%s#%d", tier, name, i),
					Content: text,
					Metadata: map[string]string{
						"tier":         tier,
						"session_file": name,
						"title":        r.Title,
						"timestamp":    r.Timestamp.UTC().Format(time.RFC3339),
					},
				})
			}
		}
	}

	if len(docs) == 0 {
		return stats, nil
	}
	if err := collection.AddDocuments(ctx, docs, 1); err != nil {
		return stats, fmt.Errorf("adding documents to recall index: %w", err)
	}
	stats.RowsIndexed = len(docs)
	return stats, nil
}

// indexText builds the text a row is embedded from: title, summary,
// decisions and actions concatenated, since any of those can be what
// a later query is actually trying to recall.
func indexText(r dropoff.Row) string {
	var out string
	for _, part := range []string{r.Title, r.Summary, r.Decisions, r.Actions} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ". "
		}
		out += part
	}
	return out
}

// Query returns the limit most similar rows to query, ranked by
// descending similarity.
func (idx *Index) Query(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	collection := idx.db.GetCollection(idx.collectionName, idx.vectorizer.AsChromemFunc())
	if collection == nil {
		return nil, nil
	}
	count := collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying recall index: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		ts, _ := time.Parse(time.RFC3339, r.Metadata["timestamp"])
		hits = append(hits, Hit{
			SessionFile: r.Metadata["session_file"],
			Timestamp:   ts,
			Title:       r.Metadata["title"],
			Score:       r.Similarity,
		})
	}
	return hits, nil
}

// Close releases the underlying chromem-go database's file handles.
func (idx *Index) Close() error {
	return nil
}
