package status

import (
	"math"
	"sync/atomic"
)

// Float is an atomically updated float64, the zero value reads 0
type Float struct {
	bits atomic.Uint64
}

// Set stores val
func (f *Float) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Get loads the current value
func (f *Float) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add adds delta and returns the new value
func (f *Float) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Label holds a short state name such as "running", the zero value reads ""
type Label struct {
	ptr atomic.Pointer[string]
}

// Store replaces the label
func (l *Label) Store(val string) {
	l.ptr.Store(&val)
}

// Load returns the current label
func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
