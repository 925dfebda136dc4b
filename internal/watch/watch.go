// Package watch reloads a manifest file when it changes on disk.
//
// The viewer uses it for host-signalled invalidation: each reload
// is handed to the host, which swaps the manifest into its layout and calls
// Invalidate. The watcher observes the file's directory rather than the file
// itself so that editors which save by rename are still seen.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/mosaic/pkg/manifest"
)

// DefaultDebounce is how long a file must be quiet before it is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Reload is one reload attempt. Exactly one of Manifest and Err is set.
type Reload struct {
	Path     string
	Manifest *manifest.Manifest
	Err      error
}

// Watcher monitors one manifest file.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Reloads  <-chan Reload // Read-only external channel

	reloads chan Reload
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the manifest at path.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Reload, 4)
	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Reloads:  ch,
		reloads:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()
	var last time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				last = time.Now()
			}

		case <-ticker.C:
			if !last.IsZero() && time.Since(last) >= w.Debounce {
				last = time.Time{}
				if !w.emit() {
					return
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event retries.

		case <-w.stop:
			return
		}
	}
}

// emit reloads the manifest and delivers the result. It reports false when
// the watcher is stopping.
func (w *Watcher) emit() bool {
	m, err := manifest.Load(w.Path)
	r := Reload{Path: w.Path, Manifest: m, Err: err}
	select {
	case w.reloads <- r:
		return true
	case <-w.stop:
		return false
	}
}
