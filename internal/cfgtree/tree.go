package cfgtree

import "errors"

// Tree is a configuration tree rooted at a mapping.
//
// Reads are strict: descending through a leaf is an error. Writes are
// permissive: missing intermediates are created and conflicting leaves are
// replaced by fresh mappings. A Tree is not safe for concurrent use.
type Tree struct {
	root *Map
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{root: NewMap()}
}

// FromMap returns a tree rooted at m. The tree takes ownership of m.
func FromMap(m *Map) *Tree {
	if m == nil {
		m = NewMap()
	}
	return &Tree{root: m}
}

// Root returns a copy of the root mapping as a branch node.
func (t *Tree) Root() *Node {
	return Branch(t.root.Clone())
}

// Get returns a copy of the node at path.
func (t *Tree) Get(path Path) (*Node, error) {
	n, err := lookup(t.root, path)
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// GetOr returns a copy of the node at path, or of def when nothing is
// stored there.
// Invalid paths and reads through leaves still fail.
func (t *Tree) GetOr(path Path, def *Node) (*Node, error) {
	n, err := lookup(t.root, path)
	if err == nil {
		return n.Clone(), nil
	}
	if errors.Is(err, ErrKeyNotFound) {
		return def.Clone(), nil
	}
	return nil, err
}

// Has reports whether a node exists at path. It never fails.
func (t *Tree) Has(path Path) bool {
	_, err := lookup(t.root, path)
	return err == nil
}

// Set stores a copy of value at path, replacing whatever was there.
// The only possible error is ErrInvalidPath.
func (t *Tree) Set(path Path, value *Node) error {
	return assign(t.root, path, value.Clone())
}

// Merge stores value at path like Set, except that when both the existing
// node and value are mappings their entries are merged recursively.
func (t *Tree) Merge(path Path, value *Node) error {
	holder, err := parent(t.root, path)
	if err != nil {
		return err
	}
	key := path[len(path)-1]
	src, srcIsMap := value.AsMap()
	existing, _ := holder.Get(key)
	dst, dstIsMap := existing.AsMap()
	if !srcIsMap || !dstIsMap {
		holder.Set(key, value.Clone())
		return nil
	}
	mergeMaps(dst, src)
	return nil
}

func mergeMaps(dst, src *Map) {
	src.Range(func(key string, value *Node) bool {
		existing, _ := dst.Get(key)
		d, dOK := existing.AsMap()
		s, sOK := value.AsMap()
		if dOK && sOK {
			mergeMaps(d, s)
		} else {
			dst.Set(key, value.Clone())
		}
		return true
	})
}

// Equal reports whether both trees hold the same paths and values.
func (t *Tree) Equal(other *Tree) bool {
	return t.root.Equal(other.root)
}
