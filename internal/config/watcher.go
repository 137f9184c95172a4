package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/sanitize"
)

// WatcherConfigFile is the spec-mandated filename for persisted per-project
// watcher state, relative to the project's .aicf directory.
const WatcherConfigFile = ".watcher-config.json"

// WatcherConfig is the typed record replacing the source implementation's
// free-form option bag (spec.md §9: "Dynamic config objects... become typed
// records with an enumerated option set"). It is read by the cycle runner at
// the start of every cycle and rewritten by `permissions grant/revoke` and
// `watch --interval`.
type WatcherConfig struct {
	EnabledSources    []aicf.Source `json:"enabledSources"`
	PollingIntervalMs int           `json:"pollingIntervalMs"`
	WorkspaceFilter   string        `json:"workspaceFilter"`
	DryRun            bool          `json:"dryRun"`
}

// DefaultWatcherConfig returns the state written by `aicf init` before any
// source has been explicitly opted into.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		EnabledSources:    nil,
		PollingIntervalMs: 300_000,
		WorkspaceFilter:   "",
		DryRun:            false,
	}
}

// LoadWatcherConfig reads and validates the watcher config file under
// aicfDir. A missing file is not an error; callers receive
// DefaultWatcherConfig() so that `watch` can run against a project that has
// never called `init`.
func LoadWatcherConfig(aicfDir string) (WatcherConfig, error) {
	path := filepath.Join(aicfDir, WatcherConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWatcherConfig(), nil
		}
		return WatcherConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg WatcherConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return WatcherConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := sanitize.ValidateGlobPattern(cfg.WorkspaceFilter); err != nil {
		return WatcherConfig{}, fmt.Errorf("workspaceFilter in %s: %w", path, err)
	}
	for _, src := range cfg.EnabledSources {
		if !src.Valid() {
			return WatcherConfig{}, fmt.Errorf("%s: unknown enabled source %q", path, src)
		}
	}

	return cfg, nil
}

// SaveWatcherConfig writes cfg to aicfDir atomically (temp file + rename).
func SaveWatcherConfig(aicfDir string, cfg WatcherConfig) error {
	if err := os.MkdirAll(aicfDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", aicfDir, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling watcher config: %w", err)
	}

	final := filepath.Join(aicfDir, WatcherConfigFile)
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp watcher config: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming watcher config into place: %w", err)
	}

	return nil
}

// IsEnabled reports whether source is in the enabled list.
func (c WatcherConfig) IsEnabled(source aicf.Source) bool {
	for _, s := range c.EnabledSources {
		if s == source {
			return true
		}
	}
	return false
}
