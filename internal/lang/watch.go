package lang

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp describes what happened to a definition file.
type ChangeOp int

// Change operations.
const (
	ChangeLoaded ChangeOp = iota + 1
	ChangeRemoved
	ChangeFailed
)

// Change is published after the Watcher updates the registry.
type Change struct {
	Op   ChangeOp
	Path string
	// Definition is the newly loaded definition for ChangeLoaded.
	Definition *Definition
	// Name is the language name for ChangeRemoved.
	Name string
	// Err is set for ChangeFailed.
	Err error
}

// Watcher reloads definition files into a Registry when they change on
// disk.
type Watcher struct {
	mu       sync.Mutex
	registry *Registry
	watcher  *fsnotify.Watcher
	sources  map[string]string // path -> language key
	dirs     map[string]bool   // directories watched as a whole
	changes  chan Change

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher creates a watcher feeding reg.
func NewWatcher(reg *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		registry: reg,
		watcher:  fsw,
		sources:  make(map[string]string),
		dirs:     make(map[string]bool),
		changes:  make(chan Change, 32),
		closeCh:  make(chan struct{}),
	}
	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Add loads path, a definition file or a directory of them, and watches it.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if info.IsDir() {
		defs, err := w.registry.LoadDir(abs)
		for _, d := range defs {
			w.sources[d.Source] = Key(d.Name)
		}
		if addErr := w.watcher.Add(abs); addErr != nil {
			return addErr
		}
		w.dirs[abs] = true
		return err
	}

	d, err := w.registry.LoadFile(abs)
	if err != nil {
		return err
	}
	w.sources[abs] = Key(d.Name)
	// Editors save by rename, so watch the directory and filter by name.
	return w.watcher.Add(filepath.Dir(abs))
}

// Changes returns the channel of registry updates.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	close(w.changes)
	return w.watcher.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if c, ok := w.handle(ev); ok {
				w.publish(c)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publish(Change{Op: ChangeFailed, Err: err})
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) (Change, bool) {
	if _, err := FormatFromPath(ev.Name); err != nil {
		return Change{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, tracked := w.sources[ev.Name]; !tracked && !w.dirs[filepath.Dir(ev.Name)] {
		return Change{}, false
	}

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		key, ok := w.sources[ev.Name]
		if !ok {
			return Change{}, false
		}
		delete(w.sources, ev.Name)
		w.registry.Unregister(key)
		return Change{Op: ChangeRemoved, Path: ev.Name, Name: key}, true

	case ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create):
		d, err := w.registry.LoadFile(ev.Name)
		if err != nil {
			return Change{Op: ChangeFailed, Path: ev.Name, Err: err}, true
		}
		if old, ok := w.sources[ev.Name]; ok && old != Key(d.Name) {
			w.registry.Unregister(old)
		}
		w.sources[ev.Name] = Key(d.Name)
		return Change{Op: ChangeLoaded, Path: ev.Name, Definition: d}, true
	}
	return Change{}, false
}

func (w *Watcher) publish(c Change) {
	select {
	case w.changes <- c:
	default:
		// Channel full, drop change
	}
}
