// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/thematic/internal/logging"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by Add and Run after Close.
var ErrClosed = errors.New("watcher closed")

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *logging.Logger
}

// Watcher calls a function when a registered file changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *logging.Logger

	mu       sync.Mutex
	handlers map[string]func(context.Context)
	dirs     map[string]bool
	pending  map[string]time.Time
	closed   bool
}

// New creates a Watcher.
func New(opts Options) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	d := opts.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	return &Watcher{
		fs:       fs,
		debounce: d,
		log:      opts.Logger.Component("watch"),
		handlers: make(map[string]func(context.Context)),
		dirs:     make(map[string]bool),
		pending:  make(map[string]time.Time),
	}, nil
}

// Add registers onChange for path. Registering the same path again replaces
// the handler.
func (w *Watcher) Add(path string, onChange func(context.Context)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.handlers[abs] = onChange
	return nil
}

// Paths returns the registered files.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.handlers))
	for p := range w.handlers {
		out = append(out, p)
	}
	return out
}

// Run processes events until ctx is cancelled or the watcher is closed.
// Handlers run on the Run goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mark(event.Name)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			w.log.WarnErr(err, "file watcher error")

		case <-ticker.C:
			for _, fn := range w.due(time.Now()) {
				fn(ctx)
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.fs.Close()
}

func (w *Watcher) mark(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.handlers[abs]; ok {
		w.pending[abs] = time.Now()
	}
}

func (w *Watcher) due(now time.Time) []func(context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fns []func(context.Context)
	for path, changed := range w.pending {
		if now.Sub(changed) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if fn := w.handlers[path]; fn != nil {
			w.log.With("path", path).Debug("file changed")
			fns = append(fns, fn)
		}
	}
	return fns
}
