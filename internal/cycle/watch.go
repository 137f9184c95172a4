package cycle

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/aicf-dev/aicf/internal/config"
)

// ConfigWatcher wakes the cycle loop early when .watcher-config.json
// changes, so a `permissions grant/revoke` or an interval edit from a
// concurrent `aicf` invocation takes effect on the next cycle boundary
// instead of waiting out a stale polling interval (SPEC_FULL.md §5). It
// never interrupts a cycle in progress; the loop only consults it between
// cycles.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	changed chan struct{}
}

// NewConfigWatcher watches aicfDir for writes to WatcherConfigFile.
func NewConfigWatcher(aicfDir string) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := w.Add(aicfDir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", aicfDir, err)
	}

	cw := &ConfigWatcher{watcher: w, changed: make(chan struct{}, 1)}
	target := filepath.Join(aicfDir, config.WatcherConfigFile)

	go cw.run(target)
	return cw, nil
}

func (cw *ConfigWatcher) run(target string) {
	for event := range cw.watcher.Events {
		if event.Name != target {
			continue
		}
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			continue
		}
		select {
		case cw.changed <- struct{}{}:
		default:
			// A pending signal already covers this wake-up.
		}
	}
}

// Changed signals once per batch of config writes. It never blocks a send:
// a loop that hasn't yet drained the previous signal just coalesces.
func (cw *ConfigWatcher) Changed() <-chan struct{} {
	return cw.changed
}

// Close stops the underlying fsnotify watcher.
func (cw *ConfigWatcher) Close() error {
	return cw.watcher.Close()
}
