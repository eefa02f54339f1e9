package cfgtree

// Map is an insertion-ordered mapping of string keys to nodes.
// The zero value is not usable; create maps with NewMap.
type Map struct {
	keys   []string
	values map[string]*Node
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]*Node)}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the node stored under key.
func (m *Map) Get(key string) (*Node, bool) {
	if m == nil {
		return nil, false
	}
	n, ok := m.values[key]
	return n, ok
}

// Set stores value under key. Replacing an existing key keeps its position.
func (m *Map) Set(key string, value *Node) {
	if value == nil {
		value = Null()
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, value *Node) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := NewMap()
	m.Range(func(key string, value *Node) bool {
		c.Set(key, value.Clone())
		return true
	})
	return c
}

// Equal reports whether both maps hold equal values under the same keys,
// regardless of order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	equal := true
	m.Range(func(key string, value *Node) bool {
		o, ok := other.Get(key)
		if !ok || !value.Equal(o) {
			equal = false
		}
		return equal
	})
	return equal
}
