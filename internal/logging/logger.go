// Package logging builds the structured zap logger used throughout the
// pipeline: one log line per stage outcome and one line per completed
// cycle summarizing counts per error kind (spec.md §7). This module does
// not carry the teacher's full configurable sampling/redaction subsystem —
// that is "logging subsystem configuration," explicitly out of scope per
// spec.md §1 — and uses a fixed, sane zap production config instead.
package logging

import (
	"errors"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger at the given level ("debug", "info", "warn",
// "error"). Output is JSON to stderr, matching zap's production defaults,
// with an ISO-8601 timestamp key.
func New(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// Sync flushes buffered log entries, swallowing the harmless EINVAL/ENOTTY
// errors zap.Sync returns for stdout/stderr on Linux.
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if err == nil {
		return nil
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && (errno == syscall.EINVAL || errno == syscall.ENOTTY) {
		return nil
	}
	return err
}
