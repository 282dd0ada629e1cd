package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher flags the current directory as dirty whenever a GIF file inside it
// is created, written, removed or renamed. The GUI loop polls ConsumeDirty
// and refreshes the catalog on its own thread, so external changes show up
// without any cross-thread mutation of viewer state.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string
	closed  bool
	done    chan struct{}
	dirty   atomic.Bool
}

// NewWatcher creates a watcher with no directory attached.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

// SetDir switches the watched directory, replacing any previous watch.
func (w *Watcher) SetDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.dir == dir {
		return nil
	}

	if w.dir != "" {
		// Best effort; the old directory may already be gone.
		_ = w.watcher.Remove(w.dir)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	return nil
}

// ConsumeDirty reports whether the directory changed since the last call
// and clears the flag.
func (w *Watcher) ConsumeDirty() bool {
	return w.dirty.Swap(false)
}

// Close stops watching and cleans up resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.watcher.Close()
}

// watch is the event loop feeding the dirty flag.
func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if isGIFEvent(event) {
				w.dirty.Store(true)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// A missed event at worst delays a refresh until the next
			// user-triggered rescan; keep watching.

		case <-w.done:
			return
		}
	}
}

// isGIFEvent reports whether the event touches a GIF file.
func isGIFEvent(event fsnotify.Event) bool {
	const ops = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if event.Op&ops == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".gif")
}
