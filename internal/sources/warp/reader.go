// Package warp reads Warp terminal's local conversation store (spec.md
// §4.1). Warp's on-disk schema is undocumented and has changed across
// releases, so this reader applies the same graceful-degradation rule as
// internal/sources/claudedesktop: a missing table yields an empty record
// set plus a diagnostic rather than a pipeline failure.
package warp

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/project"
	"github.com/aicf-dev/aicf/internal/sources"
)

// Reader implements sources.Reader for Warp's SQLite store.
type Reader struct {
	// DBPath defaults to Warp's conversations.sqlite under the user's
	// home directory; overridable for tests.
	DBPath string

	// Diagnostic receives a one-line note whenever the store degrades
	// gracefully. May be nil.
	Diagnostic func(string)
}

// New returns a Reader pointed at Warp's default conversation database.
func New() (*Reader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return &Reader{DBPath: filepath.Join(home, ".warp", "conversations.sqlite")}, nil
}

func (r *Reader) Source() aicf.Source { return aicf.SourceWarp }

func (r *Reader) Available() bool {
	info, err := os.Stat(r.DBPath)
	return err == nil && !info.IsDir()
}

func (r *Reader) diag(msg string) {
	if r.Diagnostic != nil {
		r.Diagnostic(msg)
	}
}

func (r *Reader) ReadAll(ctx context.Context, ws *project.Workspace) ([]aicf.RawRecord, sources.ReadStats, error) {
	var stats sources.ReadStats

	if !r.Available() {
		return nil, stats, sources.ErrSourceUnavailable
	}

	snapshot, cleanup, err := sources.SnapshotFile(r.DBPath)
	if err != nil {
		return nil, stats, fmt.Errorf("snapshotting %s: %w", r.DBPath, err)
	}
	defer cleanup()

	openCtx, cancel := context.WithTimeout(ctx, sources.OpenTimeout)
	defer cancel()

	db, err := sql.Open("sqlite", "file:"+snapshot+"?mode=ro&immutable=1")
	if err != nil {
		return nil, stats, fmt.Errorf("opening snapshot: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(openCtx); err != nil {
		return nil, stats, sources.ErrSourceLocked
	}

	records, seen, skipped, err := readConversations(openCtx, db, ws)
	if err != nil {
		r.diag(fmt.Sprintf("warp: %v, degrading to empty record set", err))
		return nil, stats, nil
	}
	stats.RecordsSeen = seen
	stats.RecordsSkipped = skipped

	return records, stats, nil
}

type conversationRow struct {
	id        string
	workspace sql.NullString
}

type blockRow struct {
	conversationID string
	isUser         sql.NullBool
	text           sql.NullString
	createdAt      sql.NullString
}

// readConversations queries Warp's assumed conversations/blocks schema.
// Either table being absent is reported as an error so ReadAll can
// degrade gracefully instead of treating it as source corruption.
func readConversations(ctx context.Context, db *sql.DB, ws *project.Workspace) ([]aicf.RawRecord, int, int, error) {
	convRows, err := db.QueryContext(ctx, `SELECT id, workspace FROM conversations`)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("querying conversations table: %w", err)
	}
	defer convRows.Close()

	byID := map[string]*aicf.RawRecord{}
	order := []string{}

	for convRows.Next() {
		var row conversationRow
		if err := convRows.Scan(&row.id, &row.workspace); err != nil {
			continue
		}
		if row.workspace.Valid && !ws.Matches(filepath.Base(row.workspace.String)) {
			continue
		}
		byID[row.id] = &aicf.RawRecord{
			ConversationID: row.id,
			WorkspaceID:    ws.Root,
			WorkspaceName:  ws.Name,
			Source:         aicf.SourceWarp,
			RawData:        map[string]any{"conversationId": row.id},
		}
		order = append(order, row.id)
	}
	if err := convRows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("iterating conversations: %w", err)
	}
	if len(byID) == 0 {
		return nil, 0, 0, nil
	}

	blockRows, err := db.QueryContext(ctx, `SELECT conversation_id, is_user, text, created_at FROM blocks ORDER BY created_at ASC`)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("querying blocks table: %w", err)
	}
	defer blockRows.Close()

	seen, skipped := 0, 0
	for blockRows.Next() {
		var row blockRow
		if err := blockRows.Scan(&row.conversationID, &row.isUser, &row.text, &row.createdAt); err != nil {
			skipped++
			continue
		}
		seen++

		rec, ok := byID[row.conversationID]
		if !ok {
			continue
		}
		if !row.text.Valid || row.text.String == "" {
			skipped++
			continue
		}

		role := "assistant"
		if row.isUser.Valid && row.isUser.Bool {
			role = "user"
		}

		ts := parseTimestamp(row.createdAt.String)
		rec.Messages = append(rec.Messages, aicf.Message{Role: role, Text: row.text.String, Timestamp: ts})
		if rec.Timestamp.IsZero() || ts.Before(rec.Timestamp) {
			rec.Timestamp = ts
		}
		if ts.After(rec.LastModified) {
			rec.LastModified = ts
		}
	}
	if err := blockRows.Err(); err != nil {
		return nil, seen, skipped, fmt.Errorf("iterating blocks: %w", err)
	}

	records := make([]aicf.RawRecord, 0, len(order))
	for _, id := range order {
		if rec := byID[id]; len(rec.Messages) > 0 {
			records = append(records, *rec)
		}
	}

	return records, seen, skipped, nil
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Now()
}
