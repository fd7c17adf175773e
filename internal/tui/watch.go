package tui

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 100 * time.Millisecond

// StoreWatcher signals on C when the store file is written or replaced.
// The parent directory is watched so atomic renames are seen too.
type StoreWatcher struct {
	C <-chan struct{}

	watcher *fsnotify.Watcher
	target  string
	logger  *zap.Logger
	changes chan struct{}
	done    chan struct{}

	mu    sync.Mutex
	timer *time.Timer
	once  sync.Once
}

// NewStoreWatcher starts watching path.
func NewStoreWatcher(path string, logger *zap.Logger) (*StoreWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	w := &StoreWatcher{
		C:       changes,
		watcher: watcher,
		target:  abs,
		logger:  logger,
		changes: changes,
		done:    make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

func (w *StoreWatcher) watch() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("store watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// schedule coalesces bursts of events into one signal.
func (w *StoreWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, w.notify)
}

func (w *StoreWatcher) notify() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops the watcher.
func (w *StoreWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
