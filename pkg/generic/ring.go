package generic

// Ring is a fixed-capacity FIFO queue backed by a single preallocated slice.
// It never grows; Push reports false when the ring is full.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

func (r *Ring[T]) Push(value T) bool {
	if r.size == len(r.items) {
		return false
	}
	r.items[(r.head+r.size)%len(r.items)] = value
	r.size++
	return true
}

func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	value := r.items[r.head]
	r.items[r.head] = zero // release references
	r.head = (r.head + 1) % len(r.items)
	r.size--
	return value, true
}

// Drain pops every queued item in FIFO order into fn.
func (r *Ring[T]) Drain(fn func(T)) {
	for {
		value, ok := r.Pop()
		if !ok {
			return
		}
		fn(value)
	}
}

func (r *Ring[T]) Reset() {
	for r.size > 0 {
		r.Pop()
	}
	r.head = 0
}

func (r *Ring[T]) Len() int    { return r.size }
func (r *Ring[T]) Cap() int    { return len(r.items) }
func (r *Ring[T]) Full() bool  { return r.size == len(r.items) }
func (r *Ring[T]) Empty() bool { return r.size == 0 }
