// hostapi/cmd/apigen/watch.go
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher regenerates a job whenever its declaration file changes. It watches
// the directories of the spec files so editors that save by rename-over are
// picked up too.
type watcher struct {
	gen      *generator
	debounce time.Duration
	logger   *slog.Logger

	jobs map[string]job // by cleaned spec path

	mu       sync.Mutex
	pending  map[string]time.Time
	lastHash map[string][sha256.Size]byte
}

func newWatcher(gen *generator, jobs []job, debounce time.Duration, logger *slog.Logger) *watcher {
	w := &watcher{
		gen:      gen,
		debounce: debounce,
		logger:   logger,
		jobs:     make(map[string]job, len(jobs)),
		pending:  map[string]time.Time{},
		lastHash: map[string][sha256.Size]byte{},
	}
	for _, j := range jobs {
		w.jobs[filepath.Clean(j.SpecPath)] = j
	}
	return w
}

// dirs returns the directories to watch, sorted.
func (w *watcher) dirs() []string {
	seen := map[string]bool{}
	var out []string
	for path := range w.jobs {
		d := filepath.Dir(path)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// run blocks until ctx is done. The current content of every spec is hashed
// first so only real edits trigger regeneration.
func (w *watcher) run(ctx context.Context) error {
	for path := range w.jobs {
		if sum, err := hashFile(path); err == nil {
			w.lastHash[path] = sum
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("apigen watch: create fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, d := range w.dirs() {
		if err := fsw.Add(d); err != nil {
			return fmt.Errorf("apigen watch: watch %s: %w", filepath.ToSlash(d), err)
		}
		w.logger.Debug("Watching directory.", "dir", filepath.ToSlash(d))
	}

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.observe(event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watch error.", "err", err)

		case <-ticker.C:
			w.processPending(time.Now())
		}
	}
}

// observe enqueues the spec touched by event, if it is one we generate from.
func (w *watcher) observe(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	path := filepath.Clean(event.Name)
	if _, ok := w.jobs[path]; !ok {
		return
	}
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// processPending regenerates every spec that has been quiet for the debounce
// interval.
func (w *watcher) processPending(now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, t := range w.pending {
		if now.Sub(t) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	sort.Strings(ready)
	for _, path := range ready {
		w.processChange(path)
	}
}

func (w *watcher) processChange(path string) {
	sum, err := hashFile(path)
	if err != nil {
		w.logger.Error("Failed to read declaration file.", "spec", filepath.ToSlash(path), "err", err)
		return
	}
	if prev, ok := w.lastHash[path]; ok && prev == sum {
		w.logger.Debug("Declaration file unchanged, skipping.", "spec", filepath.ToSlash(path))
		return
	}
	w.lastHash[path] = sum

	if err := w.gen.generate(w.jobs[path]); err != nil {
		// Keep watching; the next save may fix it.
		w.logger.Error("Regeneration failed.", "spec", filepath.ToSlash(path), "err", err)
	}
}

func hashFile(path string) ([sha256.Size]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(raw), nil
}
