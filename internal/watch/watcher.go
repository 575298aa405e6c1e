// Package watch re-runs a plan when its target files change on disk.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeEvent is a single filesystem change to a watched file.
type ChangeEvent struct {
	Path string
	Op   fsnotify.Op
}

// Watcher recursively watches a root directory and emits debounced event
// batches for files matching the given patterns (filepath.Match, relative
// to root). Hidden directories and vendor are skipped.
type Watcher struct {
	root     string
	patterns []string
	debounce time.Duration
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
}

// New creates a watcher over root. A nil logger disables logging.
func New(root string, patterns []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		patterns: patterns,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
	}

	if err := w.addDirs(); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// addDirs walks root and watches every non-hidden, non-vendor directory.
func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != w.root && (strings.HasPrefix(name, ".") || name == "vendor") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run is the event loop. It filters fsnotify events against the plan
// patterns, debounces rapid edits, and sends batches to out. It blocks
// until ctx is cancelled or the event stream closes.
func (w *Watcher) Run(ctx context.Context, out chan<- []ChangeEvent) error {
	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(w.debounce)
	timer.Stop() // armed on the first accepted event

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.accept(ev) {
				pending[ev.Name] = ev.Op
				timer.Reset(w.debounce)
			}
			// Start watching directories created under the root.
			if ev.Op&fsnotify.Create != 0 {
				w.maybeAddDir(ev.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]ChangeEvent, 0, len(pending))
			for p, op := range pending {
				batch = append(batch, ChangeEvent{Path: p, Op: op})
			}
			pending = make(map[string]fsnotify.Op)

			w.logger.Debug("change batch", zap.Int("files", len(batch)))
			select {
			case out <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

/// ReApply drives the watch loop: fn runs once per debounced batch until
// ctx is cancelled.
func (w *Watcher) ReApply(ctx context.Context, fn func(context.Context, []ChangeEvent)) error {
	out := make(chan []ChangeEvent, 1)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, out) }()

	for {
		select {
		case batch := <-out:
			fn(ctx, batch)
		case err := <-done:
			return err
		}
	}
}

// Close shuts down the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// accept reports whether the event concerns a file the plan targets.
func (w *Watcher) accept(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return false
	}
	for _, pattern := range w.patterns {
		if ok, err := filepath.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// maybeAddDir extends the watch to path when it is a directory that the
// initial walk would have included.
func (w *Watcher) maybeAddDir(path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || name == "vendor" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Debug("could not extend watch", zap.String("path", path), zap.Error(err))
	}
}
