// Package status publishes live engine counters for HUDs and the stats stream.
package status

import "sync/atomic"

// Registry groups metrics by value type
// The engine caches pointers at construction; Tick writes directly to atomics
// while HUDs and the stats channel read from other goroutines
type Registry struct {
	Bools  *Group[atomic.Bool]
	Ints   *Group[atomic.Int64]
	Floats *Group[Float]
	Labels *Group[Label]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:  NewGroup[atomic.Bool](),
		Ints:   NewGroup[atomic.Int64](),
		Floats: NewGroup[Float](),
		Labels: NewGroup[Label](),
	}
}

// Len returns the number of metrics across all groups
func (r *Registry) Len() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Labels.Len()
}

// Snapshot copies every metric into a flat map keyed by metric name
// Values are bool, int64, float64 or string
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.Len())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *Float) { out[k] = v.Get() })
	r.Labels.Range(func(k string, v *Label) { out[k] = v.Load() })
	return out
}
