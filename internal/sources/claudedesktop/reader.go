// Package claudedesktop reads Claude Desktop's local conversation store
// (spec.md §4.1). Claude Desktop's on-disk schema is undocumented and has
// changed across releases, so this reader treats every expected table or
// column as optional: a missing table degrades to an empty record set
// plus a diagnostic rather than failing the cycle.
package claudedesktop

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/project"
	"github.com/aicf-dev/aicf/internal/sources"
)

// Reader implements sources.Reader for Claude Desktop's SQLite store.
type Reader struct {
	// DBPath defaults to Claude Desktop's conversation database for this
	// OS; overridable for tests.
	DBPath string

	// Diagnostic receives a one-line note whenever the store degrades
	// gracefully (missing table, unparseable row) instead of failing.
	// May be nil.
	Diagnostic func(string)
}

// New returns a Reader pointed at Claude Desktop's default database
// location for the current OS.
func New() (*Reader, error) {
	path, err := defaultDBPath()
	if err != nil {
		return nil, err
	}
	return &Reader{DBPath: path}, nil
}

func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support", "Claude")
	case "windows":
		base = filepath.Join(os.Getenv("APPDATA"), "Claude")
	default:
		base = filepath.Join(home, ".config", "Claude")
	}

	return filepath.Join(base, "conversations.sqlite"), nil
}

func (r *Reader) Source() aicf.Source { return aicf.SourceClaudeDesktop }

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
		r.diag(fmt.Sprintf("claude-desktop: %v, degrading to empty record set", err))
		return nil, stats, nil
	}
	stats.RecordsSeen = seen
	stats.RecordsSkipped = skipped

	return records, stats, nil
}

type conversationRow struct {
	id        string
	workspace sql.NullString
	title     sql.NullString
	createdAt sql.NullString
}

type messageRow struct {
	conversationID string
	role           sql.NullString
	content        sql.NullString
	createdAt      sql.NullString
}

// readConversations queries the two tables Claude Desktop's store is
// expected to carry (conversations, messages). Either table being absent
// is reported to the caller as an error so ReadAll can degrade gracefully
// rather than treat it as source corruption.
func readConversations(ctx context.Context, db *sql.DB, ws *project.Workspace) ([]aicf.RawRecord, int, int, error) {
	convRows, err := db.QueryContext(ctx, `SELECT id, workspace, title, created_at FROM conversations`)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("querying conversations table: %w", err)
	}
	defer convRows.Close()

	byID := map[string]*aicf.RawRecord{}
	order := []string{}

	for convRows.Next() {
		var row conversationRow
		if err := convRows.Scan(&row.id, &row.workspace, &row.title, &row.createdAt); err != nil {
			continue
		}
		if row.workspace.Valid && !ws.Matches(filepath.Base(row.workspace.String)) {
			continue
		}

		byID[row.id] = &aicf.RawRecord{
			ConversationID: row.id,
			WorkspaceID:    ws.Root,
			WorkspaceName:  ws.Name,
			Source:         aicf.SourceClaudeDesktop,
			RawData:        map[string]any{"conversationId": row.id, "title": row.title.String},
		}
		order = append(order, row.id)
	}
	if err := convRows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("iterating conversations: %w", err)
	}
	if len(byID) == 0 {
		return nil, 0, 0, nil
	}

	msgRows, err := db.QueryContext(ctx, `SELECT conversation_id, role, content, created_at FROM messages ORDER BY created_at ASC`)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("querying messages table: %w", err)
	}
	defer msgRows.Close()

	seen, skipped := 0, 0
	for msgRows.Next() {
		var row messageRow
		if err := msgRows.Scan(&row.conversationID, &row.role, &row.content, &row.createdAt); err != nil {
			skipped++
			continue
		}
		seen++

		rec, ok := byID[row.conversationID]
		if !ok {
			continue
		}

		text := row.content.String
		if looksLikeJSON(text) {
			var decoded any
			if err := json.Unmarshal([]byte(text), &decoded); err != nil {
				skipped++
				continue
			}
		}

		role := row.role.String
		if role == "" {
			role = "user"
		}

		ts := parseTimestamp(row.createdAt.String)
		rec.Messages = append(rec.Messages, aicf.Message{Role: role, Text: text, Timestamp: ts})
		if rec.Timestamp.IsZero() || ts.Before(rec.Timestamp) {
			rec.Timestamp = ts
		}
		if ts.After(rec.LastModified) {
			rec.LastModified = ts
		}
	}
	if err := msgRows.Err(); err != nil {
		return nil, seen, skipped, fmt.Errorf("iterating messages: %w", err)
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

func looksLikeJSON(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
