// FILE: lixenwraith/cosima/watch.go
package cosima

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// Debounce coalesces rapid changes into one reload (minimum MinDebounce)
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int
}

// DefaultWatchOptions returns the standard watch options
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce:    DefaultDebounce,
		MaxWatchers: DefaultMaxWatchers,
	}
}

// WatchEventType classifies a watcher notification
type WatchEventType int

const (
	// EventReloaded means the file changed and parsed cleanly
	EventReloaded WatchEventType = iota
	// EventInvalid means the file changed but no longer parses
	EventInvalid
	// EventDeleted means the file was removed
	EventDeleted
)

func (t WatchEventType) String() string {
	switch t {
	case EventReloaded:
		return "reloaded"
	case EventInvalid:
		return "invalid"
	case EventDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("WatchEventType(%d)", int(t))
	}
}

// WatchEvent reports one reload attempt. File is set for EventReloaded,
// Err for the other types.
type WatchEvent struct {
	Type WatchEventType
	Path string
	File *SourceFile
	Err  error
}

// Watcher keeps a SourceFile in sync with its file on disk. The parent
// directory is watched so editors that save by rename are seen too.
type Watcher struct {
	mu            sync.RWMutex
	fsw           *fsnotify.Watcher
	path          string
	load          LoadOptions
	opts          WatchOptions
	logger        *zap.Logger
	current       *SourceFile
	subscribers   map[int64]chan WatchEvent
	nextID        int64
	debounceTimer *time.Timer
	stopped       bool
	stopCh        chan struct{}
	doneCh        chan struct{}
	stopOnce      sync.Once
}

// Watch loads path and starts watching it until ctx is done or Stop is called.
// A file that does not load initially is an error.
func Watch(ctx context.Context, path string, load LoadOptions, opts WatchOptions) (*Watcher, error) {
	load = load.withDefaults()
	if opts.Debounce < MinDebounce {
		opts.Debounce = MinDebounce
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", path, err)
	}

	initial, err := LoadWithOptions(path, load)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch '%s': %w", filepath.Dir(absPath), err)
	}

	w := &Watcher{
		fsw:         fsw,
		path:        absPath,
		load:        load,
		opts:        opts,
		logger:      load.Logger,
		current:     initial,
		subscribers: make(map[int64]chan WatchEvent),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	go w.run(ctx)

	w.logger.Debug("watching source file", zap.String("path", absPath))
	return w, nil
}

// Current returns the most recent SourceFile that loaded cleanly.
func (w *Watcher) Current() *SourceFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Subscribe returns a channel of reload events. The channel is closed by Stop.
// Past MaxWatchers an already closed channel is returned.
func (w *Watcher) Subscribe() <-chan WatchEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped || len(w.subscribers) >= w.opts.MaxWatchers {
		ch := make(chan WatchEvent)
		close(ch)
		return ch
	}

	// Buffered so a slow subscriber does not stall reloads
	ch := make(chan WatchEvent, 10)
	w.nextID++
	w.subscribers[w.nextID] = ch
	return ch
}

// Stop terminates the watcher and closes all subscriber channels.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh

		w.mu.Lock()
		w.stopped = true
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
			w.debounceTimer = nil
		}
		for id, ch := range w.subscribers {
			close(ch)
			delete(w.subscribers, id)
		}
		w.mu.Unlock()

		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing file watcher failed", zap.Error(err))
		}
	})
}

// run is the main event loop
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue // chmod
			}
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

// schedule debounces rapid changes into a single reload
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.reload)
}

func (w *Watcher) reload() {
	event := WatchEvent{Path: w.path}

	f, err := LoadWithOptions(w.path, w.load)
	switch {
	case errors.Is(err, ErrSourceFileNotFound):
		event.Type = EventDeleted
		event.Err = err
	case err != nil:
		event.Type = EventInvalid
		event.Err = err
	default:
		event.Type = EventReloaded
		event.File = f
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if event.File != nil {
		w.current = event.File
	}

	w.logger.Debug("source file changed",
		zap.String("path", w.path),
		zap.Stringer("event", event.Type),
		zap.Error(event.Err))

	for _, ch := range w.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is full, drop
		}
	}
}
