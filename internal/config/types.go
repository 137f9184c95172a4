// Package config provides the ambient operational configuration (logging,
// telemetry, admin surface, polling) and the spec-mandated per-project
// watcher state persisted at .aicf/.watcher-config.json.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration for text unmarshaling from env vars.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the ambient, process-level configuration: everything that is
// not part of the per-project watcher state. It is populated from
// environment variables layered over hardcoded defaults; there is no YAML
// file for this module (the only persisted configuration the spec names is
// the per-project WatcherConfig, handled separately in watcher.go).
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `koanf:"log_level"`

	// PollingInterval is the default cycle trigger interval; overridden per
	// project by WatcherConfig.PollingIntervalMs once one has been written.
	PollingInterval Duration `koanf:"polling_interval"`

	// AdminAddr, if set, enables the loopback-only admin HTTP surface
	// (/healthz, /metrics) for `watch --daemon`. Empty disables it.
	AdminAddr string `koanf:"admin_addr"`

	// TelemetryEnabled turns on the otel stdout/console exporter. The
	// pipeline never ships spans or metrics to a remote collector.
	TelemetryEnabled bool `koanf:"telemetry_enabled"`
}

// Default returns the hardcoded baseline Config before environment
// overrides are applied.
func Default() Config {
	return Config{
		LogLevel:         "info",
		PollingInterval:  Duration(300 * time.Second),
		AdminAddr:        "",
		TelemetryEnabled: true,
	}
}
