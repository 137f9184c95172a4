package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestRunImport_WritesRecordsWithoutConsolidating(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	records := []aicf.RawRecord{
		{
			ConversationID: "conv-1",
			WorkspaceID:    "ws-1",
			Source:         aicf.SourceWarp,
			RawData:        map[string]any{"text": "hello"},
		},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	exportPath := filepath.Join(tmp, "export.json")
	if err := os.WriteFile(exportPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	importCmd.SetOut(&out)
	if err := runImport(importCmd, []string{"warp", exportPath}); err != nil {
		t.Fatalf("runImport failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmp, ".cache", "llm", "warp"))
	if err != nil {
		t.Fatalf("reading cache dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 chunk file, got %d", len(entries))
	}

	if _, err := os.Stat(filepath.Join(tmp, ".aicf", "sessions")); !os.IsNotExist(err) {
		t.Errorf("import must not trigger consolidation, but .aicf/sessions exists")
	}
}

func TestRunImport_AcceptsSingleObjectExport(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	record := aicf.RawRecord{
		ConversationID: "conv-solo",
		Source:         aicf.SourceAugment,
		RawData:        map[string]any{"text": "solo conversation"},
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	exportPath := filepath.Join(tmp, "solo.json")
	if err := os.WriteFile(exportPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	importCmd.SetOut(&out)
	if err := runImport(importCmd, []string{"augment", exportPath}); err != nil {
		t.Fatalf("runImport failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmp, ".cache", "llm", "augment"))
	if err != nil {
		t.Fatalf("reading cache dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 chunk file, got %d", len(entries))
	}
}

func TestRunImport_RejectsUnknownSource(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	exportPath := filepath.Join(tmp, "export.json")
	if err := os.WriteFile(exportPath, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runImport(importCmd, []string{"not-a-source", exportPath}); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
