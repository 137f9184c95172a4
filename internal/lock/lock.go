// Package lock enforces the single-writer concurrency policy of spec.md
// §5: concurrent runs of the pipeline on the same project are forbidden,
// via an exclusive lock file at .aicf/.watcher.lock.
package lock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFile is the spec-mandated filename, relative to the project's .aicf
// directory.
const LockFile = ".watcher.lock"

// AcquireTimeout is the maximum time a cycle waits to acquire the exclusive
// lock before exiting silently (spec.md §5).
const AcquireTimeout = 1 * time.Second

// ErrConcurrencyViolation is returned when the lock cannot be acquired
// within AcquireTimeout; spec.md §7 names this a silent-exit condition, so
// callers must not treat it as a fatal error worth surfacing loudly.
var ErrConcurrencyViolation = errors.New("another cycle already holds the watcher lock")

// Lock wraps an acquired exclusive lock on a project's .watcher.lock file.
type Lock struct {
	fl *flock.Flock
}

// Acquire attempts to take the exclusive lock under aicfDir, polling at a
// fine grain until AcquireTimeout elapses. On timeout it returns
// ErrConcurrencyViolation and the caller must exit without further action.
func Acquire(aicfDir string) (*Lock, error) {
	path := filepath.Join(aicfDir, LockFile)
	fl := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), AcquireTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrConcurrencyViolation
		}
		return nil, fmt.Errorf("acquiring lock %s: %w", path, err)
	}
	if !locked {
		return nil, ErrConcurrencyViolation
	}

	return &Lock{fl: fl}, nil
}

// Release drops the exclusive lock.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("releasing watcher lock: %w", err)
	}
	return nil
}
