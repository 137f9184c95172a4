package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aicf-dev/aicf/internal/memoryfile"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move pre-existing .aicf/ files aside and create the tiered skeleton",
	Long: `migrate detects files sitting directly in .aicf/ from before this
tiered layout existed, moves them verbatim into legacy_memory/, and then
creates the sessions/medium/old/archive/recent skeleton alongside them.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	aicfDir := filepath.Join(root, ".aicf")
	legacyDir := filepath.Join(root, "legacy_memory")

	entries, err := os.ReadDir(aicfDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", aicfDir, err)
	}

	knownDirs := map[string]bool{
		memoryfile.RecentDir: true,
		"sessions":           true,
		"medium":             true,
		"old":                true,
		"archive":            true,
	}
	knownFiles := map[string]bool{
		".permissions.aicf":    true,
		".watcher-config.json": true,
		".watcher.lock":        true,
		"recall-index":         true,
	}

	moved := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() && knownDirs[name] {
			continue
		}
		if !e.IsDir() && knownFiles[name] {
			continue
		}

		if err := os.MkdirAll(legacyDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", legacyDir, err)
		}
		src := filepath.Join(aicfDir, name)
		dst := filepath.Join(legacyDir, name)
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("moving %s to legacy_memory: %w", src, err)
		}
		moved++
	}

	for _, dir := range []string{
		filepath.Join(aicfDir, memoryfile.RecentDir),
		filepath.Join(aicfDir, "sessions"),
		filepath.Join(aicfDir, "medium"),
		filepath.Join(aicfDir, "old"),
		filepath.Join(aicfDir, "archive"),
		filepath.Join(root, memoryfile.MarkdownDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	cmd.Printf("Moved %d pre-existing file(s) to %s\n", moved, legacyDir)
	return nil
}
