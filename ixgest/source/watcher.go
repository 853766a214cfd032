package source

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/logger"
)

// DefaultDebounce coalesces the burst of events an editor or downloader
// produces for one logical change
const DefaultDebounce = 500 * time.Millisecond

// ChangeCallback runs after the watched file settles
type ChangeCallback func(path string)

// Watcher re-triggers work when a local association file changes.
//
// The parent directory is watched so files replaced by rename are still
// seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.SugaredLogger

	mu    sync.Mutex
	timer *time.Timer

	done     chan struct{}
	loopDone chan struct{}
	stopOnce sync.Once
}

// NewWatcher watches path. debounce <= 0 means DefaultDebounce.
func NewWatcher(path string, debounce time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		logger:   logger.OrNop(log),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string { return w.path }

// Start runs the event loop in the background. onChange is called from a
// timer goroutine, at most once per debounce window.
func (w *Watcher) Start(onChange ChangeCallback) {
	go w.loop(onChange)
}

func (w *Watcher) loop(onChange ChangeCallback) {
	defer close(w.loopDone)
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debugw("Source changed", logger.FieldPath, event.Name, "op", event.Op.String())
			w.schedule(onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Source watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) schedule(onChange ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		onChange(w.path)
	})
}

// Stop ends the loop and cancels a pending callback. Safe to call more
// than once; a callback already running is not interrupted.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return err
}

// Wait blocks until the loop launched by Start has exited, which happens
// after Stop
func (w *Watcher) Wait() {
	<-w.loopDone
}
