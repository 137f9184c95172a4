// Package augment reads the Augment VS Code extension's per-workspace
// LevelDB key-value stores (spec.md §4.1). No repo in the retrieval pack
// reads a LevelDB store directly, so the goleveldb wiring itself is named
// rather than grounded (see DESIGN.md); the cross-platform "where does
// this vendor keep its data" resolution follows the teacher's
// getClaudeSettingsPath pattern in cmd/ctxd/statusline.go.
package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/project"
	"github.com/aicf-dev/aicf/internal/sources"
)

const exchangeKeyPrefix = "exchange:"

// Reader implements sources.Reader for Augment's LevelDB stores.
type Reader struct {
	// WorkspaceStorageRoot defaults to VS Code's workspaceStorage
	// directory for this OS; overridable for tests.
	WorkspaceStorageRoot string
}

// New returns a Reader rooted at VS Code's workspaceStorage directory for
// the current OS.
func New() (*Reader, error) {
	root, err := workspaceStorageRoot()
	if err != nil {
		return nil, err
	}
	return &Reader{WorkspaceStorageRoot: root}, nil
}

func workspaceStorageRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Code", "User", "workspaceStorage"), nil
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "Code", "User", "workspaceStorage"), nil
		}
		return filepath.Join(home, ".config", "Code", "User", "workspaceStorage"), nil
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Code", "User", "workspaceStorage"), nil
	default:
		return filepath.Join(home, ".config", "Code", "User", "workspaceStorage"), nil
	}
}

func (r *Reader) Source() aicf.Source { return aicf.SourceAugment }

func (r *Reader) Available() bool {
	info, err := os.Stat(r.WorkspaceStorageRoot)
	return err == nil && info.IsDir()
}

type workspaceJSON struct {
	Folder string `json:"folder"`
}

type exchangeValue struct {
	ConversationID string          `json:"conversationId"`
	RequestMessage string          `json:"request_message"`
	ResponseText   string          `json:"response_text"`
	ModelID        string          `json:"model_id"`
	Timestamp      string          `json:"timestamp"`
	RequestNodes   json.RawMessage `json:"request_nodes,omitempty"`
	ResponseNodes  json.RawMessage `json:"response_nodes,omitempty"`
}

type toolNode struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (r *Reader) ReadAll(ctx context.Context, ws *project.Workspace) ([]aicf.RawRecord, sources.ReadStats, error) {
	var stats sources.ReadStats

	if !r.Available() {
		return nil, stats, sources.ErrSourceUnavailable
	}

	entries, err := os.ReadDir(r.WorkspaceStorageRoot)
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s: %w", r.WorkspaceStorageRoot, err)
	}

	// Group raw records by conversationId so every exchange pair for the
	// same conversation lands in one RawRecord, matching the Claude CLI
	// reader's one-record-per-conversation shape.
	conversations := map[string]*aicf.RawRecord{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		select {
		case <-ctx.Done():
			return nil, stats, ctx.Err()
		default:
		}

		workspaceDir := filepath.Join(r.WorkspaceStorageRoot, entry.Name())
		if !workspaceMatches(workspaceDir, ws) {
			continue
		}

		storeDir := filepath.Join(workspaceDir, "Augment.vscode-augment", "augment-kv-store")
		if info, err := os.Stat(storeDir); err != nil || !info.IsDir() {
			continue
		}

		seen, skipped, err := readStore(ctx, storeDir, ws, conversations)
		if err != nil {
			return nil, stats, err
		}
		stats.RecordsSeen += seen
		stats.RecordsSkipped += skipped
	}

	records := make([]aicf.RawRecord, 0, len(conversations))
	for _, rec := range conversations {
		records = append(records, *rec)
	}

	return records, stats, nil
}

// workspaceMatches reads the workspace.json adjacent to the kv-store and
// applies the spec's exact-match filter against the folder name it names.
func workspaceMatches(workspaceDir string, ws *project.Workspace) bool {
	data, err := os.ReadFile(filepath.Join(workspaceDir, "workspace.json"))
	if err != nil {
		return false
	}

	var wj workspaceJSON
	if err := json.Unmarshal(data, &wj); err != nil {
		return false
	}

	folder := strings.TrimPrefix(wj.Folder, "file://")
	return ws.Matches(filepath.Base(folder))
}

func readStore(ctx context.Context, storeDir string, ws *project.Workspace, conversations map[string]*aicf.RawRecord) (seen, skipped int, err error) {
	snapshot, cleanup, err := sources.SnapshotDir(storeDir)
	if err != nil {
		return 0, 0, fmt.Errorf("snapshotting %s: %w", storeDir, err)
	}
	defer cleanup()

	openCtx, cancel := context.WithTimeout(ctx, sources.OpenTimeout)
	defer cancel()

	db, err := openReadOnly(openCtx, snapshot)
	if err != nil {
		return 0, 0, sources.ErrSourceLocked
	}
	defer db.Close()

	iter := db.NewIterator(util.BytesPrefix([]byte(exchangeKeyPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		seen++

		var ev exchangeValue
		if err := json.Unmarshal(iter.Value(), &ev); err != nil {
			skipped++
			continue
		}
		if ev.ConversationID == "" {
			skipped++
			continue
		}

		ts := time.Now()
		if ev.Timestamp != "" {
			if parsed, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
				ts = parsed
			}
		}

		msg := aicf.Message{Role: "user", Text: ev.RequestMessage, Timestamp: ts}
		msg.ToolCalls = append(msg.ToolCalls, parseToolNodes(ev.RequestNodes)...)

		reply := aicf.Message{Role: "assistant", Text: ev.ResponseText, Timestamp: ts}
		reply.ToolCalls = append(reply.ToolCalls, parseToolNodes(ev.ResponseNodes)...)

		rec, ok := conversations[ev.ConversationID]
		if !ok {
			rec = &aicf.RawRecord{
				ConversationID: ev.ConversationID,
				WorkspaceID:    ws.Root,
				WorkspaceName:  ws.Name,
				Source:         aicf.SourceAugment,
				Timestamp:      ts,
				LastModified:   ts,
				RawData:        map[string]any{"conversationId": ev.ConversationID, "modelId": ev.ModelID},
			}
			conversations[ev.ConversationID] = rec
		}
		if ts.Before(rec.Timestamp) {
			rec.Timestamp = ts
		}
		if ts.After(rec.LastModified) {
			rec.LastModified = ts
		}
		rec.Messages = append(rec.Messages, msg, reply)
	}
	if err := iter.Error(); err != nil {
		return seen, skipped, fmt.Errorf("iterating %s: %w", storeDir, err)
	}

	return seen, skipped, nil
}

func parseToolNodes(raw json.RawMessage) []aicf.ToolCall {
	if len(raw) == 0 {
		return nil
	}
	var nodes []toolNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil
	}
	calls := make([]aicf.ToolCall, 0, len(nodes))
	for _, n := range nodes {
		calls = append(calls, aicf.ToolCall{Name: n.Name, Detail: n.Content})
	}
	return calls
}

// openReadOnly opens snapshot as a read-only LevelDB database, bounded by
// ctx so a corrupted or still-locked copy cannot hang the reader past
// sources.OpenTimeout.
func openReadOnly(ctx context.Context, snapshot string) (*leveldb.DB, error) {
	type result struct {
		db  *leveldb.DB
		err error
	}
	done := make(chan result, 1)

	go func() {
		db, err := leveldb.OpenFile(snapshot, &opt.Options{ReadOnly: true})
		done <- result{db, err}
	}()

	select {
	case <-ctx.Done():
		// The goroutine may still succeed after we give up; drain it in the
		// background so a late-opening db doesn't leak its file handles.
		go func() {
			if r := <-done; r.db != nil {
				r.db.Close()
			}
		}()
		return nil, ctx.Err()
	case r := <-done:
		return r.db, r.err
	}
}
