package registry

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"neuronos/internal/obslog"
	"neuronos/pkg/types"
)

// Watcher rescans dir whenever its contents change, instead of polling,
// keeping the last scan result available via Entries. A long-running
// agent process benefits from picking up newly downloaded models
// without a restart.
type Watcher struct {
	dir string
	hw types.HardwareInfo

	mu sync.RWMutex
	entries []types.ModelEntry

	watcher *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher performs an initial scan of dir and starts watching it for
// changes. Callers must call Close when done.
func NewWatcher(dir string, hw types.HardwareInfo) (*Watcher, error) {
	entries, err := Scan(dir, hw)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		dir: dir,
		hw: hw,
		entries: entries,
		watcher: fw,
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			entries, err := Scan(w.dir, w.hw)
			if err != nil {
				lg := obslog.Logger()
				lg.Warn().Err(err).Str("dir", w.dir).Msg("registry: rescan failed")
				continue
			}
			w.mu.Lock()
			w.entries = entries
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			lg := obslog.Logger()
			lg.Warn().Err(err).Msg("registry: watch error")
		case <-w.done:
			return
		}
	}
}

// Entries returns the most recent scan result.
func (w *Watcher) Entries() []types.ModelEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]types.ModelEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
