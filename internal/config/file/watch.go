package file

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads the settings file after it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(File, error)
	done     chan struct{}
	wg       sync.WaitGroup
}

// Watch starts watching path. onChange runs on the watcher goroutine with the
// freshly loaded file, or the error that prevented loading it. The parent
// directory is watched so editors that replace the file are seen too.
func Watch(path string, onChange func(File, error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	watcher := &Watcher{
		watcher:  w,
		path:     path,
		debounce: defaultDebounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	watcher.wg.Add(1)
	go watcher.loop()
	return watcher, nil
}

// Close stops the watcher and waits for a pending reload to finish.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-fire:
			f, err := Load(w.path)
			if err != nil {
				events.Config.ReloadError(w.path, err)
			} else {
				events.Config.Reload(w.path)
			}
			w.onChange(f, err)
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
