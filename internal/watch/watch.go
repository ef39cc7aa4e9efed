// Package watch reports new contents of a file whenever it changes on disk.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// DefaultSettle is how long the file must stay quiet before it is read.
// Editors often save in several steps (truncate, write, rename).
const DefaultSettle = 100 * time.Millisecond

// Payload is one observed version of the watched file.
type Payload struct {
	Path string
	Data []byte
	Err  error // read failure; Data is nil
}

// Watcher follows a single file. The parent directory is watched so that
// atomic-rename saves are still seen.
type Watcher struct {
	path    string
	settle  time.Duration
	fs      *fsnotify.Watcher
	updates chan Payload
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New starts watching path.
func New(path string) (*Watcher, error) {
	return NewWithSettle(path, DefaultSettle)
}

// NewWithSettle starts watching path with a custom quiet period.
func NewWithSettle(path string, settle time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		settle:  settle,
		fs:      fw,
		updates: make(chan Payload, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()

	logger.Info("watching model file", zap.String("path", abs))
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Updates delivers the latest contents after each change. Only the newest
// unread payload is kept. The channel is closed by Close.
func (w *Watcher) Updates() <-chan Payload {
	return w.updates
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.updates)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.settle)
	timer.Stop()
	pending := false

	for {
		select {
		case <-w.done:
			timer.Stop()
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("model file event", zap.String("op", event.Op.String()))
			timer.Reset(w.settle)
			pending = true

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", zap.Error(err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			w.publish(w.read())
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) read() Payload {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return Payload{Path: w.path, Err: err}
	}
	return Payload{Path: w.path, Data: data}
}

// publish replaces any unread payload with p.
func (w *Watcher) publish(p Payload) {
	for {
		select {
		case w.updates <- p:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
