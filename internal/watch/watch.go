// Package watch monitors a replay directory and ingests new recordings as
// the game writes them.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blzulian/agelytics/internal/ingest"
	"github.com/blzulian/agelytics/internal/logging"
	"github.com/blzulian/agelytics/internal/model"
	"github.com/blzulian/agelytics/internal/store"
)

// OnMatch is invoked after each successful ingestion.
type OnMatch func(*model.Match)

// Watcher tails a replay directory for finished recordings. The game keeps
// appending to the file during a match, so each event only (re)arms a
// debounce timer; the file is ingested once it goes quiet.
type Watcher struct {
	dir      string
	debounce time.Duration
	ingester *ingest.Ingester
	onMatch  OnMatch
	logger   *log.Logger
	logLevel logging.Level
}

func New(dir string, cfg model.Config, ingester *ingest.Ingester, onMatch OnMatch, logger *log.Logger) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: time.Duration(cfg.Watcher.DebounceMs) * time.Millisecond,
		ingester: ingester,
		onMatch:  onMatch,
		logger:   logger,
		logLevel: logging.ParseLevel(cfg.Logging.Level),
	}
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := os.Stat(w.dir); err != nil {
		return fmt.Errorf("replay directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.log(logging.LevelInfo, "watching dir=%s", w.dir)

	pending := map[string]*time.Timer{}
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isReplay(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.log(logging.LevelDebug, "fsnotify event=%s file=%s", event.Op, event.Name)
			path := event.Name
			if t, exists := pending[path]; exists {
				t.Reset(w.debounce)
				continue
			}
			pending[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			w.handle(ctx, path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log(logging.LevelWarn, "watcher error=%v", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	m, err := w.ingester.One(ctx, path)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			w.log(logging.LevelDebug, "duplicate file=%s", path)
			return
		}
		w.log(logging.LevelWarn, "ingest file=%s error=%v", path, err)
		return
	}
	w.log(logging.LevelInfo, "new match id=%d map=%s players=%d", m.ID, m.MapName, len(m.Players))
	if w.onMatch != nil {
		w.onMatch(m)
	}
}

func isReplay(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".aoe2record" || ext == ".mgz"
}

func (w *Watcher) log(level logging.Level, format string, args ...any) {
	if level < w.logLevel || w.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	w.logger.Printf("%s %s watch: %s", time.Now().Format(time.RFC3339), level, msg)
}
