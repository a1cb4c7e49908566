package content

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"voxfolio/internal/logging"
)

// Watcher hot-reloads a content pack file when it changes on disk. Editors
// tend to emit bursts of write events, so reloads are debounced.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	registry *Registry
	packPath string
	debounce time.Duration
	lastLoad time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher that reloads registry from packPath.
func NewWatcher(registry *Registry, packPath string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		registry: registry,
		packPath: packPath,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the pack's directory. Non-blocking.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.packPath)); err != nil {
		return err
	}
	w.running = true
	go w.run()
	return nil
}

// Stop tears the watcher down. Safe to call repeatedly.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh
	_ = w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.packPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if time.Since(w.lastLoad) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastLoad = time.Now()
			w.mu.Unlock()

			if err := w.registry.LoadFile(w.packPath); err != nil {
				logging.ContentWarn("content pack reload failed, keeping previous pack: %v", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.ContentWarn("content watcher error: %v", err)
		}
	}
}
