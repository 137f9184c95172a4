package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/config"
	"github.com/aicf-dev/aicf/internal/memoryfile"
	"github.com/aicf-dev/aicf/internal/permission"
)

var (
	initAutomatic bool
	initManual    bool
	initForce     bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initAutomatic, "automatic", false, "enable every known source without prompting")
	initCmd.Flags().BoolVar(&initManual, "manual", false, "prompt for each source individually (default)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "re-run init even if .aicf already exists")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the directory skeleton and record source consent",
	Long: `init creates the .aicf tier directories and .ai markdown mirror under
the current project root, then asks which foreign conversation stores
(augment, claude-cli, claude-desktop, warp) the user consents to
reading, recording the answer in .permissions.aicf.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	aicfDir := filepath.Join(root, ".aicf")

	if _, err := os.Stat(aicfDir); err == nil && !initForce {
		return fmt.Errorf(".aicf already exists at %s; pass --force to re-run init", aicfDir)
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

	enabled, err := chooseSources(cmd)
	if err != nil {
		return err
	}

	store := permission.Open(aicfDir)
	for _, src := range enabled {
		if err := store.Grant(src); err != nil {
			return fmt.Errorf("recording consent for %s: %w", src, err)
		}
	}

	watcherCfg := config.DefaultWatcherConfig()
	watcherCfg.EnabledSources = enabled
	if err := config.SaveWatcherConfig(aicfDir, watcherCfg); err != nil {
		return fmt.Errorf("writing watcher config: %w", err)
	}

	cmd.Printf("Initialized %s\n", aicfDir)
	cmd.Printf("Enabled sources: %v\n", enabled)
	return nil
}

func chooseSources(cmd *cobra.Command) ([]aicf.Source, error) {
	if initAutomatic {
		return append([]aicf.Source{}, aicf.KnownSources...), nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	var enabled []aicf.Source
	for _, src := range aicf.KnownSources {
		cmd.Printf("Enable reading from %s? [y/N] ", src)
		if !scanner.Scan() {
			break
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer == "y" || answer == "yes" {
			enabled = append(enabled, src)
		}
	}
	return enabled, scanner.Err()
}
