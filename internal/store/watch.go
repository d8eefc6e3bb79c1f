package store

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDelay = 100 * time.Millisecond

// Watcher reports writes to the database file made by any process.
// Bursts of filesystem events are coalesced into one notification.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// Watch starts watching the directory holding dbPath. Events for the
// database, its WAL and journal are coalesced over delay.
func Watch(dbPath string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	if delay <= 0 {
		delay = defaultWatchDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fs:     fsw,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go w.loop(filepath.Base(dbPath), delay)
	return w, nil
}

// Events delivers one value per coalesced burst. It is never closed;
// receivers select on it alongside their own shutdown signal.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Done is closed by Close.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(base string, delay time.Duration) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid events
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, w.notify)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("store watcher error", "err", err)
		}
	}
}

func (w *Watcher) notify() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
		// one notification already pending
	}
}
