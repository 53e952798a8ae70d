// Package watch imports CSV files dropped into a folder.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ramonehamilton/MTG-Collection/internal/events"
)

// DefaultPattern matches CSV files at any depth.
const DefaultPattern = "**/*.csv"

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	Pattern    string                  // Glob relative to the watched directory
	Settle     time.Duration           // Quiet period after the last write before a file is handled
	Dispatcher *events.EventDispatcher // Optional; receives import:file events
}

// Watcher handles every file matching a pattern under a directory once per
// modification time.
type Watcher struct {
	dir     string
	opts    Options
	handler Handler

	mu      sync.Mutex
	seen    map[string]time.Time
	pending map[string]*time.Timer
}

// New creates a watcher for dir.
func New(dir string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(opts.Pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", opts.Pattern)
	}
	if opts.Settle <= 0 {
		opts.Settle = 500 * time.Millisecond
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory %s is not a directory", dir)
	}
	return &Watcher{
		dir:     dir,
		opts:    opts,
		handler: handler,
		seen:    make(map[string]time.Time),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Matches reports whether path, absolute or relative to the watched
// directory, matches the pattern.
func (w *Watcher) Matches(path string) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(w.dir, path)
		if err != nil {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)
	if ok, err := doublestar.Match(w.opts.Pattern, rel); err == nil && ok {
		return true
	}
	// Also try matching against just the filename.
	ok, err := doublestar.Match(w.opts.Pattern, filepath.Base(rel))
	return err == nil && ok
}

// Scan handles every matching file already present.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	matches, err := doublestar.Glob(os.DirFS(w.dir), w.opts.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", w.dir, err)
	}
	handled := 0
	for _, rel := range matches {
		if ctx.Err() != nil {
			return handled, ctx.Err()
		}
		if w.process(ctx, filepath.Join(w.dir, filepath.FromSlash(rel))) {
			handled++
		}
	}
	return handled, nil
}

// Run scans the directory, then handles new and modified files until ctx
// is cancelled.
func (w *Watcher) Run(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		w.stopPending()
	}()

	if err := w.addTree(watcher, w.dir); err != nil {
		return err
	}
	if _, err := w.Scan(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, watcher, event)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Watch] File watcher error: %v", werr)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(watcher, event.Name); err != nil {
				log.Printf("[Watch] %v", err)
			}
		}
		return
	}
	if !w.Matches(event.Name) {
		return
	}
	w.schedule(ctx, event.Name)
}

// schedule restarts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.opts.Settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if ctx.Err() == nil {
			w.process(ctx, path)
		}
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// process handles path unless this modification time was already handled.
func (w *Watcher) process(ctx context.Context, path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	w.mu.Lock()
	if last, ok := w.seen[path]; ok && !info.ModTime().After(last) {
		w.mu.Unlock()
		return false
	}
	w.seen[path] = info.ModTime()
	w.mu.Unlock()

	if w.opts.Dispatcher != nil {
		w.opts.Dispatcher.Dispatch(events.NewEvent(ctx, events.TypeImportFileFound, events.ImportFileFoundEvent{Path: path}))
	}
	if err := w.handler(ctx, path); err != nil {
		log.Printf("[Watch] Failed to import %s: %v", path, err)
	}
	return true
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
