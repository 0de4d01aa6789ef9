package lang

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Registry maps language names and file extensions to definitions. It is
// safe for concurrent use so a Watcher can update it while editors look
// definitions up.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	byExt map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:  make(map[string]*Definition),
		byExt: make(map[string]string),
	}
}

// NewBuiltinRegistry creates a registry holding every builtin definition.
func NewBuiltinRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, name := range BuiltinNames() {
		d, err := Builtin(name)
		if err != nil {
			return nil, err
		}
		r.Register(d)
	}
	return r, nil
}

// Register adds d, replacing any definition with the same name. The
// replaced definition's Lua tokenizer, if any, is closed.
func (r *Registry) Register(d *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(d.Name)
	if old, ok := r.defs[key]; ok && old != d {
		closeTokenizer(old)
		for ext, name := range r.byExt {
			if name == key {
				delete(r.byExt, ext)
			}
		}
	}
	r.defs[key] = d
	for _, ext := range d.Extensions {
		r.byExt[strings.ToLower(ext)] = key
	}
}

// Unregister removes the definition registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(name)
	if d, ok := r.defs[key]; ok {
		closeTokenizer(d)
		delete(r.defs, key)
	}
	for ext, n := range r.byExt {
		if n == key {
			delete(r.byExt, ext)
		}
	}
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.defs[Key(name)]; ok {
		return d, nil
	}
	if d, ok := r.defs[builtinKey(name)]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// ForPath returns the definition selected by the extension of path.
func (r *Registry) ForPath(path string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, false
	}
	d, ok := r.defs[key]
	return d, ok
}

// Names returns the registered language names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for _, d := range r.defs {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}

// LoadFile parses a definition file and registers it.
func (r *Registry) LoadFile(path string) (*Definition, error) {
	d, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	r.Register(d)
	return d, nil
}

// LoadDir registers every TOML and YAML definition in dir. Files that fail
// to load are skipped and their errors returned together.
func (r *Registry) LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading language dir %s: %w", dir, err)
	}

	var loaded []*Definition
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatFromPath(e.Name()); err != nil {
			continue
		}
		d, err := r.LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, d)
	}
	return loaded, errors.Join(errs...)
}

func closeTokenizer(d *Definition) {
	if lt, ok := d.Tokenizer.(*LuaTokenizer); ok {
		lt.Close()
	}
}
