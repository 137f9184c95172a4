package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicf-dev/aicf/internal/aicf"
)

func TestLoadWatcherConfig_MissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadWatcherConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultWatcherConfig(), cfg)
}

func TestSaveAndLoadWatcherConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := WatcherConfig{
		EnabledSources:    []aicf.Source{aicf.SourceClaudeCLI, aicf.SourceAugment},
		PollingIntervalMs: 60_000,
		WorkspaceFilter:   "*.go",
		DryRun:            true,
	}

	require.NoError(t, SaveWatcherConfig(dir, cfg))

	_, err := filepath.Glob(filepath.Join(dir, WatcherConfigFile))
	require.NoError(t, err)

	got, err := LoadWatcherConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestWatcherConfig_IsEnabled(t *testing.T) {
	cfg := WatcherConfig{EnabledSources: []aicf.Source{aicf.SourceWarp}}
	assert.True(t, cfg.IsEnabled(aicf.SourceWarp))
	assert.False(t, cfg.IsEnabled(aicf.SourceAugment))
}

func TestLoadWatcherConfig_RejectsUnknownSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveWatcherConfig(dir, WatcherConfig{}))

	badPath := filepath.Join(dir, WatcherConfigFile)
	require.NoError(t, os.WriteFile(badPath, []byte(`{"enabledSources":["not-a-real-source"]}`), 0o644))

	_, err := LoadWatcherConfig(dir)
	assert.Error(t, err)
}
