package status

import (
	"slices"
	"sync"
)

// Group maps metric names to stable pointers of T
// Lookups lock; writers are expected to cache the pointer once
type Group[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
	keys  []string // sorted on insert
}

// NewGroup creates an empty group
func NewGroup[T any]() *Group[T] {
	return &Group[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating it on first use
func (g *Group[T]) Get(key string) *T {
	g.mu.RLock()
	ptr, ok := g.items[key]
	g.mu.RUnlock()
	if ok {
		return ptr
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if ptr, ok := g.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	g.items[key] = ptr
	i, _ := slices.BinarySearch(g.keys, key)
	g.keys = slices.Insert(g.keys, i, key)
	return ptr
}

// Has reports whether key was ever requested
func (g *Group[T]) Has(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.items[key]
	return ok
}

// Range visits metrics in key order
func (g *Group[T]) Range(fn func(key string, ptr *T)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, k := range g.keys {
		fn(k, g.items[k])
	}
}

// Len returns the number of metrics
func (g *Group[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.keys)
}
