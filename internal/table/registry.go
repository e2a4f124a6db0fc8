package table

import (
	"fmt"
	"sort"
	"sync"
)

// TransformFunc maps a table to a caller-defined shape.
type TransformFunc func(*DataTable) (any, error)

// Registry holds named table transforms. The built-in strategies are
// registered by NewRegistry; callers add their own with Register.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]TransformFunc
}

// NewRegistry returns a registry holding objects, map, arrays, transpose,
// verticalMap and horizontalMap.
func NewRegistry() *Registry {
	r := &Registry{transforms: make(map[string]TransformFunc)}
	r.transforms["objects"] = func(t *DataTable) (any, error) { return t.Hashes(), nil }
	r.transforms["map"] = func(t *DataTable) (any, error) { return t.RowsHash() }
	r.transforms["arrays"] = func(t *DataTable) (any, error) { return t.Raw(), nil }
	r.transforms["transpose"] = func(t *DataTable) (any, error) { return t.Transpose().Raw(), nil }
	r.transforms["verticalMap"] = func(t *DataTable) (any, error) { return verticalMap(t), nil }
	r.transforms["horizontalMap"] = func(t *DataTable) (any, error) { return verticalMap(t.Transpose()), nil }
	return r
}

// Register adds or replaces a named transform.
func (r *Registry) Register(name string, fn TransformFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = fn
}

// Names returns the registered transform names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transform applies the named transform to t.
func (r *Registry) Transform(name string, t *DataTable) (any, error) {
	r.mu.RLock()
	fn, ok := r.transforms[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown table transform %q", name)
	}
	return fn(t)
}

// verticalMap keys each row by its first cell and keeps the remaining cells.
func verticalMap(t *DataTable) map[string][]string {
	out := make(map[string][]string, t.Len())
	for _, row := range t.rows {
		out[row[0]] = append([]string(nil), row[1:]...)
	}
	return out
}
