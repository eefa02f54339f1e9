package cfgtree

import "strings"

// Path is an ordered sequence of keys identifying a node.
type Path []string

// ParsePath splits a dot separated path such as "pulse.outputs.primary".
// Empty input yields an empty (invalid) path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "."))
}

// String joins the keys with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// lookup walks root strictly. Missing keys yield a KeyNotFoundError and
// non-mapping intermediates a PathTypeError.
func lookup(root *Map, path Path) (*Node, error) {
	if len(path) == 0 {
		return nil, ErrInvalidPath
	}
	current := root
	for i, key := range path {
		node, ok := current.Get(key)
		if !ok {
			return nil, &KeyNotFoundError{Path: path}
		}
		if i == len(path)-1 {
			return node, nil
		}
		next, ok := node.AsMap()
		if !ok {
			return nil, &PathTypeError{Path: path, Index: i, Kind: node.Kind()}
		}
		current = next
	}
	return nil, &KeyNotFoundError{Path: path}
}

// parent walks root to the mapping that holds the last key of path,
// creating or replacing intermediates so that every step is a mapping.
func parent(root *Map, path Path) (*Map, error) {
	if len(path) == 0 {
		return nil, ErrInvalidPath
	}
	current := root
	for _, key := range path[:len(path)-1] {
		node, ok := current.Get(key)
		next, isMap := node.AsMap()
		if !ok || !isMap {
			next = NewMap()
			current.Set(key, Branch(next))
		}
		current = next
	}
	return current, nil
}

// assign stores value at path, pruning conflicting leaves along the way.
func assign(root *Map, path Path, value *Node) error {
	holder, err := parent(root, path)
	if err != nil {
		return err
	}
	holder.Set(path[len(path)-1], value)
	return nil
}
