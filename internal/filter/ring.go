package filter

// Ring is a fixed-capacity circular buffer that overwrites its oldest entry
// when full. It is not safe for concurrent use; the filter only runs on the
// frame thread.
type Ring[T any] struct {
	buffer []T
	head   int
	size   int
}

// NewRing creates a ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buffer: make([]T, capacity)}
}

// Push inserts an item, evicting the oldest one if the ring is full.
func (r *Ring[T]) Push(item T) {
	r.buffer[r.head] = item
	r.head = (r.head + 1) % len(r.buffer)
	if r.size < len(r.buffer) {
		r.size++
	}
}

// Len returns the number of stored items.
func (r *Ring[T]) Len() int { return r.size }

// Reset empties the ring.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buffer {
		r.buffer[i] = zero
	}
	r.head = 0
	r.size = 0
}

// Each calls fn for every item from oldest to newest.
func (r *Ring[T]) Each(fn func(T)) {
	start := (r.head - r.size + len(r.buffer)) % len(r.buffer)
	for i := 0; i < r.size; i++ {
		fn(r.buffer[(start+i)%len(r.buffer)])
	}
}
