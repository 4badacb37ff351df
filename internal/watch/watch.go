// Package watch re-runs a callback when lintable files change on disk.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the watcher waits after the last event before
	// calling OnChange.
	Debounce time.Duration
	// Exclude holds glob patterns matched against directory base names.
	// Matching directories are not watched.
	Exclude []string
	// Accept reports whether a changed file is of interest. Nil accepts all.
	Accept func(path string) bool
	// OnChange receives the sorted, de-duplicated paths that changed.
	// Calls are serialized.
	OnChange func(paths []string)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher reports debounced batches of file changes under a set of
// directories.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	exclude    []glob.Glob
	accept     func(string) bool
	onChange   func([]string)
	callbackMu sync.Mutex
	log        *slog.Logger

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

// New creates a Watcher. Call Watch to start receiving events.
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, fmt.Errorf("watch: OnChange is required")
	}

	w := &Watcher{
		debounce: opts.Debounce,
		accept:   opts.Accept,
		onChange: opts.OnChange,
		log:      opts.Logger,
		pending:  make(map[string]struct{}),
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	if w.accept == nil {
		w.accept = func(string) bool { return true }
	}

	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		w.exclude = append(w.exclude, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsWatcher = fsw
	return w, nil
}

// Watch adds every non-excluded directory under paths and starts delivering
// events in the background.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excluded(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if w.excluded(event.Name) {
				return
			}
			if err := w.watchRecursive(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
				return
			}
			w.log.Debug("watching new directory", "path", event.Name)
			w.enqueueExistingFiles(event.Name)
			return
		}
	}

	if !w.accept(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.scheduleChange(event.Name)
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.log.Debug("files changed", "count", len(paths))
	w.onChange(paths)
}

func (w *Watcher) excluded(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) enqueueExistingFiles(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && w.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.accept(path) {
			w.scheduleChange(path)
		}
		return nil
	})
}

// Close stops watching. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
