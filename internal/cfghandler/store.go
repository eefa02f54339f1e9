// Package cfghandler binds configuration trees to YAML files and keeps one
// shared store per logical name ("juke", ...) in a Registry.
package cfghandler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/cfgtree"
	"github.com/AiR-0nE/RPi-Jukebox-RFID/internal/logging"
)

// Store owns one configuration tree and the file it was loaded from.
//
// A Store is not safe for concurrent use; callers sharing a store across
// goroutines must serialize access themselves.
type Store struct {
	name  string
	opts  options
	path  string
	tree  *cfgtree.Tree
	dirty bool
}

// NewStore returns an unloaded store. Most callers obtain stores from a
// Registry instead.
func NewStore(name string, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{name: name, opts: o}
}

// Name returns the logical name of the store.
func (s *Store) Name() string { return s.name }

// Path returns the backing file path, empty if none is known.
func (s *Store) Path() string { return s.path }

// Loaded reports whether a tree has been loaded.
func (s *Store) Loaded() bool { return s.tree != nil }

// Dirty reports whether the tree changed since the last load or save.
func (s *Store) Dirty() bool { return s.dirty }

// Load reads and parses the YAML file at path, replacing the current tree.
// On failure the previous tree is kept.
func (s *Store) Load(path string) error {
	f, err := s.opts.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return s.load(f, path)
}

// LoadFrom parses YAML from r, replacing the current tree. When r has a
// Name method (*os.File, afero.File) that name becomes the save destination;
// otherwise the store has no destination until one is given to SaveTo.
func (s *Store) LoadFrom(r io.Reader) error {
	var source string
	if named, ok := r.(interface{ Name() string }); ok {
		source = named.Name()
	}
	return s.load(r, source)
}

func (s *Store) load(r io.Reader, source string) error {
	tree, err := cfgtree.Decode(r)
	if err != nil {
		var pe *cfgtree.ParseError
		if errors.As(err, &pe) && pe.Source == "" {
			pe.Source = source
		}
		return err
	}

	s.tree = tree
	s.path = source
	s.dirty = false
	logging.Debug("Config %q loaded from %s", s.name, source)
	return nil
}

// Save writes the tree back to the path it was loaded from.
func (s *Store) Save() error {
	return s.SaveTo("")
}

// SaveTo writes the tree to dest, or to the load path when dest is empty.
// The file is replaced atomically: on failure the previous content is left
// in place.
func (s *Store) SaveTo(dest string) error {
	if s.tree == nil {
		return ErrStoreNotLoaded
	}
	if dest == "" {
		dest = s.path
	}
	if dest == "" {
		return ErrNoDestination
	}

	data, err := cfgtree.Marshal(s.tree)
	if err != nil {
		return err
	}
	if err := writeAtomic(s.opts.fs, dest, data, s.opts.fileMode); err != nil {
		return err
	}

	s.dirty = false
	logging.Debug("Config %q saved to %s (%d bytes)", s.name, dest, len(data))
	return nil
}

// writeAtomic writes data to a temporary file next to dest and renames it
// over dest.
func writeAtomic(fs afero.Fs, dest string, data []byte, mode os.FileMode) error {
	// Replace the link target, not the link.
	if _, ok := fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(dest); err == nil {
			dest = resolved
		}
	}
	if info, err := fs.Stat(dest); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+"."+uuid.NewString()+".tmp")
	f, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = fs.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close config file: %w", err)
	}
	if err := fs.Chmod(tmp, mode); err != nil {
		return fmt.Errorf("failed to set config file mode: %w", err)
	}
	if err := fs.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) loadedTree() (*cfgtree.Tree, error) {
	if s.tree == nil {
		return nil, ErrStoreNotLoaded
	}
	return s.tree, nil
}

// Get returns the node at path.
func (s *Store) Get(path cfgtree.Path) (*cfgtree.Node, error) {
	tree, err := s.loadedTree()
	if err != nil {
		return nil, err
	}
	return tree.Get(path)
}

// GetN is Get with the path given as separate keys.
func (s *Store) GetN(keys ...string) (*cfgtree.Node, error) {
	return s.Get(cfgtree.Path(keys))
}

// GetOr returns the node at path or def if nothing is stored there.
func (s *Store) GetOr(path cfgtree.Path, def *cfgtree.Node) (*cfgtree.Node, error) {
	tree, err := s.loadedTree()
	if err != nil {
		return nil, err
	}
	return tree.GetOr(path, def)
}

// Has reports whether a node exists at path.
func (s *Store) Has(path cfgtree.Path) (bool, error) {
	tree, err := s.loadedTree()
	if err != nil {
		return false, err
	}
	return tree.Has(path), nil
}

// Set stores value at path and marks the store dirty.
func (s *Store) Set(path cfgtree.Path, value *cfgtree.Node) error {
	return s.write(path, value)
}

// SetN stores value under the given keys; it is equivalent to
// Set(cfgtree.Path(keys), value).
func (s *Store) SetN(value *cfgtree.Node, keys ...string) error {
	return s.write(cfgtree.Path(keys), value)
}

func (s *Store) write(path cfgtree.Path, value *cfgtree.Node) error {
	tree, err := s.loadedTree()
	if err != nil {
		return err
	}
	if s.opts.mode == MergeOnWrite {
		err = tree.Merge(path, value)
	} else {
		err = tree.Set(path, value)
	}
	if err != nil {
		return err
	}
	s.dirty = true
	return nil
}
