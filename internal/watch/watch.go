// Package watch reports modifications of a single file made by other processes.
package watch

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls a function whenever its file is written, created, renamed
// over or removed. The parent directory is watched so atomic replacements
// (write to a temporary file, then rename) are seen.
type Watcher struct {
	path     string
	onChange func(path string)
	log      *zap.Logger
	fs       *fsnotify.Watcher
	done     chan struct{}
}

// New starts watching path. onChange runs on the watcher's goroutine.
func New(path string, log *zap.Logger, onChange func(path string)) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		onChange: onChange,
		log:      log,
		fs:       fw,
		done:     make(chan struct{}),
	}
	go w.loop()

	log.Debug("Watching configuration file", zap.String("path", abs))
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&relevantOps == 0 {
				continue
			}
			w.log.Debug("Configuration file changed",
				zap.String("path", w.path),
				zap.Stringer("op", event.Op),
			)
			if w.onChange != nil {
				w.onChange(w.path)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("File watcher error", zap.Error(err))
		}
	}
}
