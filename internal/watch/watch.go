// Package watch reports external writes to files the editor cares about:
// the open document and the repository HEAD.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

type Event struct {
	Path string
	Op   fsnotify.Op
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher watches the parent directory of each added file, so files that
// are replaced by rename (atomic saves, git checkout) keep being reported.
type Watcher struct {
	fsw    *fsnotify.Watcher
	delay  time.Duration
	log    *zap.Logger
	events chan Event

	mu    sync.RWMutex
	files map[string]bool
	dirs  map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:    fsw,
		delay:  DefaultDebounce,
		log:    zap.NewNop(),
		events: make(chan Event, 16),
		files:  make(map[string]bool),
		dirs:   make(map[string]bool),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts reporting writes to path. The file itself need not exist yet.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	w.log.Debug("watching file", zap.String("path", abs))
	return nil
}

func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsw.Close()
		close(w.events)
	})
	return err
}

func (w *Watcher) watched(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path := filepath.Clean(ev.Name)
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.watched(path) {
				continue
			}
			pending[path] |= ev.Op
			timer.Reset(w.delay)
		case <-timer.C:
			for path, op := range pending {
				select {
				case w.events <- Event{Path: path, Op: op}:
				case <-w.done:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}
