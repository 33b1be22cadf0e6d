package spark

// Pool is a fixed-capacity slot array with a rotating allocation cursor
// Slots are reused in place; nothing is allocated after construction
type Pool[T any] struct {
	slots  []T
	active []bool
	cursor int
	count  int
}

// NewPool allocates capacity zeroed slots
func NewPool[T any](capacity int) *Pool[T] {
	return &Pool[T]{
		slots:  make([]T, capacity),
		active: make([]bool, capacity),
	}
}

// Acquire claims the first free slot at or after the cursor and advances the
// cursor past it. Returns false when count has reached limit or every slot is taken
// The returned slot holds stale data from its previous occupant
func (p *Pool[T]) Acquire(limit int) (int, *T, bool) {
	if p.count >= limit {
		return -1, nil, false
	}
	n := len(p.slots)
	for k := 0; k < n; k++ {
		i := (p.cursor + k) % n
		if p.active[i] {
			continue
		}
		p.active[i] = true
		p.cursor = (i + 1) % n
		p.count++
		return i, &p.slots[i], true
	}
	return -1, nil, false
}

// Release frees slot i, releasing an inactive slot is a no-op
func (p *Pool[T]) Release(i int) {
	if !p.active[i] {
		return
	}
	p.active[i] = false
	p.count--
}

// Reset frees every slot and rewinds the cursor
func (p *Pool[T]) Reset() {
	clear(p.active)
	p.cursor = 0
	p.count = 0
}

// IsActive reports whether slot i is occupied
func (p *Pool[T]) IsActive(i int) bool {
	return p.active[i]
}

// At returns slot i regardless of its state
func (p *Pool[T]) At(i int) *T {
	return &p.slots[i]
}

// Count returns the number of occupied slots
func (p *Pool[T]) Count() int {
	return p.count
}

// Cap returns the slot capacity
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}

// Cursor returns the slot index the next scan starts from
func (p *Pool[T]) Cursor() int {
	return p.cursor
}
