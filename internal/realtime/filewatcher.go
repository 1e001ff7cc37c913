package realtime

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 150 * time.Millisecond

// FileWatcher watches a sqlite database file and its WAL companions and
// publishes a wildcard change when another process writes to them.
type FileWatcher struct {
	path     string
	pub      Publisher
	debounce time.Duration
	log      zerolog.Logger
}

func NewFileWatcher(dbPath string, pub Publisher, log zerolog.Logger) *FileWatcher {
	return &FileWatcher{
		path:     dbPath,
		pub:      pub,
		debounce: defaultDebounce,
		log:      log.With().Str("component", "file-watcher").Logger(),
	}
}

func (w *FileWatcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run blocks until ctx is cancelled.
func (w *FileWatcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watching the directory survives the file being replaced.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		target = filepath.Base(abs)
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev, target) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.pub.Publish(Change{Op: OpUpdate})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *FileWatcher) relevant(ev fsnotify.Event, target string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == target || strings.HasPrefix(name, target+"-")
}
