package cfghandler

import "sort"

// Registry maps logical config names to their single Store.
//
// Entries live as long as the registry. A Registry does no locking; a
// multi-goroutine host must serialize access per store.
type Registry struct {
	opts   []Option
	stores map[string]*Store
}

// NewRegistry returns an empty registry. opts apply to every store it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:   opts,
		stores: make(map[string]*Store),
	}
}

// GetHandler returns the store registered under name, creating an unloaded
// one on first use.
func (r *Registry) GetHandler(name string) *Store {
	if s, ok := r.stores[name]; ok {
		return s
	}
	s := NewStore(name, r.opts...)
	r.stores[name] = s
	return s
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
