package quiz

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"shieldkit/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives a freshly validated dataset after the file changes.
type ReloadFunc func([]Email)

// DatasetWatcher reloads a YAML dataset whenever the file is written.
// Invalid edits are logged and skipped; the last good dataset stays in use.
type DatasetWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onReload ReloadFunc
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewDatasetWatcher creates a watcher for the dataset at path.
func NewDatasetWatcher(path string, onReload ReloadFunc) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DatasetWatcher{
		watcher:  w,
		path:     abs,
		onReload: onReload,
		debounce: 200 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It returns immediately; events are handled in a goroutine.
func (dw *DatasetWatcher) Start(ctx context.Context) error {
	dw.mu.Lock()
	if dw.running {
		dw.mu.Unlock()
		return nil
	}
	dw.running = true
	dw.mu.Unlock()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := dw.watcher.Add(filepath.Dir(dw.path)); err != nil {
		dw.mu.Lock()
		dw.running = false
		dw.mu.Unlock()
		return err
	}
	logging.Quiz("watching dataset %s", dw.path)

	go dw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (dw *DatasetWatcher) Stop() {
	dw.mu.Lock()
	if !dw.running {
		dw.mu.Unlock()
		_ = dw.watcher.Close()
		return
	}
	dw.running = false
	dw.mu.Unlock()

	close(dw.stopCh)
	<-dw.doneCh

	if err := dw.watcher.Close(); err != nil {
		logging.QuizWarn("dataset watcher close: %v", err)
	}
}

func (dw *DatasetWatcher) run(ctx context.Context) {
	defer close(dw.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.stopCh:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != dw.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logging.QuizDebug("dataset event %s", event.Op)
			dw.pending = time.Now()
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			logging.QuizWarn("dataset watcher error: %v", err)
		case <-ticker.C:
			if dw.pending.IsZero() || time.Since(dw.pending) < dw.debounce {
				continue
			}
			dw.pending = time.Time{}
			dw.reload()
		}
	}
}

func (dw *DatasetWatcher) reload() {
	emails, err := LoadEmails(dw.path)
	if err != nil {
		logging.QuizWarn("dataset reload skipped: %v", err)
		return
	}
	logging.Quiz("dataset reloaded: %d emails", len(emails))
	if dw.onReload != nil {
		dw.onReload(emails)
	}
}
