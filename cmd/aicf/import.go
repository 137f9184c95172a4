package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/cachestore"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <source> <external-export-file>",
	Short: "Write a foreign export into .cache/llm/<source>/ without consolidating it",
	Long: `import decodes a JSON export of one or more conversation records and
writes them straight into that source's content-addressed cache
directory. It never runs consolidation itself — consolidation is
always the watcher's job (spec.md §6), so an imported record is picked
up by the next "aicf watch" cycle like any other cached record.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	src, err := parseSourceArg(args[0])
	if err != nil {
		return err
	}
	exportPath := args[1]

	data, err := os.ReadFile(exportPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", exportPath, err)
	}

	records, err := decodeExport(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", exportPath, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no records", exportPath)
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	cacheRoot := filepath.Join(root, ".cache")
	store, err := cachestore.Open(cachestore.SourceDir(cacheRoot, src))
	if err != nil {
		return fmt.Errorf("opening cache store for %s: %w", src, err)
	}

	written, duplicates := 0, 0
	for _, rec := range records {
		rec.Source = src
		result, err := store.Write(rec)
		if err != nil {
			return fmt.Errorf("writing record %s: %w", rec.ConversationID, err)
		}
		if result.Duplicate {
			duplicates++
			continue
		}
		written++
	}

	cmd.Printf("Imported %d record(s) into %s (%d duplicate(s) skipped)\n", written, cachestore.SourceDir(cacheRoot, src), duplicates)
	return nil
}

// decodeExport accepts either a single RawRecord object or a JSON array
// of them, since a one-off manual export is as likely to be one
// conversation as many.
func decodeExport(data []byte) ([]aicf.RawRecord, error) {
	var records []aicf.RawRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var single aicf.RawRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []aicf.RawRecord{single}, nil
}
