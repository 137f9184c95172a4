package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config from hardcoded defaults overridden by environment
// variables. Variables use the AICF_ prefix and an underscore separator,
// e.g. AICF_LOG_LEVEL, AICF_ADMIN_ADDR, AICF_POLLING_INTERVAL.
//
// Precedence (highest to lowest): environment variables, then defaults.
// There is deliberately no YAML/file layer here — see the package doc.
func Load() (*Config, error) {
	k := koanf.New(".")

	def := Default()
	defaultsYAML, err := yamlFromDefault(def)
	if err != nil {
		return nil, fmt.Errorf("serializing default config: %w", err)
	}
	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	if err := k.Load(env.Provider("AICF_", ".", func(s string) string {
		trimmed := strings.TrimPrefix(s, "AICF_")
		return strings.ToLower(trimmed)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// yamlFromDefault renders the hardcoded default Config as YAML so it can be
// loaded through the same koanf pipeline as environment overrides, keeping
// a single unmarshal path instead of two.
func yamlFromDefault(cfg Config) ([]byte, error) {
	lines := []string{
		"log_level: " + cfg.LogLevel,
		"polling_interval: " + cfg.PollingInterval.Duration().String(),
		"admin_addr: \"" + cfg.AdminAddr + "\"",
		fmt.Sprintf("telemetry_enabled: %t", cfg.TelemetryEnabled),
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}
