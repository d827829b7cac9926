// ABOUTME: Polling file watcher for keybinding hot-reload
// ABOUTME: Compares mtime and size at a fixed interval until the context is cancelled

package config

import (
	"context"
	"os"
	"sync"
	"time"
)

const defaultWatchInterval = 2 * time.Second

type fileStamp struct {
	mtime time.Time
	size  int64
}

// Watcher monitors files for changes by polling at regular intervals.
// Files that do not exist yet are watched for creation.
type Watcher struct {
	paths    []string
	onChange func()
	interval time.Duration

	mu     sync.Mutex
	stamps map[string]fileStamp
}

// NewWatcher creates a watcher that calls onChange when any monitored file
// is created, modified or removed.
func NewWatcher(paths []string, onChange func()) *Watcher {
	w := &Watcher{
		paths:    paths,
		onChange: onChange,
		interval: defaultWatchInterval,
		stamps:   make(map[string]fileStamp),
	}
	w.snapshotLocked()
	return w
}

// SetInterval overrides the default polling interval. Call before Run.
func (w *Watcher) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// Run polls until ctx is done and returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check compares the files against the last snapshot and calls onChange
// synchronously when anything differs.
func (w *Watcher) Check() bool {
	w.mu.Lock()
	changed := w.changedLocked()
	if changed {
		w.snapshotLocked()
	}
	w.mu.Unlock()

	if changed {
		w.onChange()
	}
	return changed
}

func (w *Watcher) changedLocked() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		prev, existed := w.stamps[path]
		if err != nil {
			if existed {
				return true
			}
			continue
		}
		if !existed || !info.ModTime().Equal(prev.mtime) || info.Size() != prev.size {
			return true
		}
	}
	return false
}

func (w *Watcher) snapshotLocked() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.stamps, path)
			continue
		}
		w.stamps[path] = fileStamp{mtime: info.ModTime(), size: info.Size()}
	}
}
