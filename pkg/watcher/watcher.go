package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a document must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled document. Errors are logged, not fatal.
type Handler func(path string) error

// Watcher watches a single source folder, non-recursively, so the per-document
// output trees it produces never trigger further runs.
type Watcher struct {
	dir      string
	ext      string
	handle   Handler
	debounce time.Duration
	log      logrus.FieldLogger
}

// New creates a Watcher for documents ending in ext inside dir.
// A nil logger discards output.
func New(dir, ext string, handle Handler, log logrus.FieldLogger) *Watcher {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Watcher{dir: dir, ext: ext, handle: handle, debounce: DefaultDebounce, log: log}
}

// SetDebounce overrides DefaultDebounce.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run blocks until ctx is done. Handlers run one at a time on this goroutine,
// in path order when several documents settle together.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.log.Infof("Watching %s for %s documents", w.dir, w.ext)

	tick := w.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if IsRelevant(ev, w.ext) {
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("Watch error: %v", err)

		case now := <-ticker.C:
			var ready []string
			for path, seen := range pending {
				if now.Sub(seen) >= w.debounce {
					ready = append(ready, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				delete(pending, path)
				if !isRegularFile(path) {
					continue
				}
				w.log.WithField("file", filepath.Base(path)).Info("Change detected")
				if err := w.handle(path); err != nil {
					w.log.WithField("file", filepath.Base(path)).Errorf("Batch failed: %v", err)
				}
			}
		}
	}
}

// IsRelevant reports whether ev creates or writes a file ending in ext.
func IsRelevant(ev fsnotify.Event, ext string) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	return strings.HasSuffix(filepath.Base(ev.Name), ext)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
