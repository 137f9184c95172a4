package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSessionFile = `@CONVERSATIONS
@SCHEMA
C#|TIMESTAMP|TITLE|SUMMARY|AI_MODEL|DECISIONS|ACTIONS|STATUS
@DATA
1|2026-07-29T10:00:00Z|Cache layer design|Chose an LRU cache for chunks|claude|Use an LRU cache bounded by byte size, not entry count|implemented the cache|resolved
@NOTES
- Session: 2026-07-29
`

func TestRecall_ReindexThenQuery(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	sessionsDir := filepath.Join(tmp, ".aicf", "sessions")
	if err := os.MkdirAll(sessionsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sessionsDir, "2026-07-29.aicf"), []byte(sampleSessionFile), 0o644); err != nil {
		t.Fatal(err)
	}

	var reindexOut bytes.Buffer
	recallReindexCmd.SetOut(&reindexOut)
	if err := runRecallReindex(recallReindexCmd, nil); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if !strings.Contains(reindexOut.String(), "indexed 1 row") {
		t.Errorf("expected reindex output to report 1 indexed row, got: %q", reindexOut.String())
	}

	recallLimit = 5
	var queryOut bytes.Buffer
	recallCmd.SetOut(&queryOut)
	if err := runRecall(recallCmd, []string{"LRU cache for chunks"}); err != nil {
		t.Fatalf("recall query failed: %v", err)
	}
	if !strings.Contains(queryOut.String(), "Cache layer design") {
		t.Errorf("expected query output to surface the matching title, got: %q", queryOut.String())
	}
}

func TestRecall_QueryOnEmptyIndexPrintsHint(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	recallLimit = 5
	var out bytes.Buffer
	recallCmd.SetOut(&out)
	if err := runRecall(recallCmd, []string{"anything"}); err != nil {
		t.Fatalf("recall query failed: %v", err)
	}
	if !strings.Contains(out.String(), "reindex") {
		t.Errorf("expected hint to run reindex, got: %q", out.String())
	}
}
