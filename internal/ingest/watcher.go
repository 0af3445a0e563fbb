// Package ingest feeds the batch extractor with PDF paths discovered in a
// watched inbox directory.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the write bursts editors and downloaders produce
// while a file is still being written.
const defaultDebounce = 2 * time.Second

// WatchConfig configures an inbox watcher.
type WatchConfig struct {
	Root        string        // directory to watch, recursive
	InitialScan bool          // emit files already present at startup
	Debounce    time.Duration // quiet period before a path is emitted
}

// Watcher emits paths of PDF files that appear or change under the root.
type Watcher struct {
	config  WatchConfig
	watcher *fsnotify.Watcher
	events  chan string
}

// NewWatcher creates a watcher over the configured root. Call Run to start
// receiving paths on Events.
func NewWatcher(cfg WatchConfig) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watch root cannot be empty")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot create filesystem watcher: %w", err)
	}

	return &Watcher{
		config:  cfg,
		watcher: fsw,
		events:  make(chan string, 256),
	}, nil
}

// Events is the channel of discovered PDF paths. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Run watches the root until the context is cancelled. New directories are
// added to the watch as they appear; paths are emitted once the debounce
// period passes without further writes.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.watcher.Close()

	if err := w.addTree(w.config.Root); err != nil {
		return err
	}

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	// Fired debounce callbacks may still be running when the event loop
	// exits; the events channel must stay open until the last one returns.
	var emits sync.WaitGroup

	// drainPending stops every timer that has not fired yet (its callback
	// never runs, so its WaitGroup slot is released here) and waits out the
	// ones already in flight. Runs before the deferred close above.
	drainPending := func() {
		mu.Lock()
		for path, timer := range pending {
			if timer.Stop() {
				emits.Done()
			}
			delete(pending, path)
		}
		mu.Unlock()
		emits.Wait()
	}
	defer drainPending()

	emitLater := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := pending[path]; ok {
			timer.Reset(w.config.Debounce)
			return
		}
		emits.Add(1)
		pending[path] = time.AfterFunc(w.config.Debounce, func() {
			defer emits.Done()
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			select {
			case w.events <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need to join the watch to stay recursive.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Printf("watcher: cannot watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if isPDF(event.Name) {
				emitLater(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// addTree registers path and its subdirectories with the watcher. Files that
// already exist are emitted when an initial scan was requested. A non-
// directory path returns an error so event handling can fall through to the
// file case.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		if w.config.InitialScan && isPDF(path) {
			select {
			case w.events <- path:
			default:
				log.Printf("watcher backlog full, dropping %s", path)
			}
		}
		return nil
	})
}

func isPDF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
