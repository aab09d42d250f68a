// Package ring provides a fixed-capacity circular buffer used for rolling
// event histories and as the buffering strategy of stream channels. Once the
// buffer is full, each append overwrites the oldest element, so a buffer
// always retains the most recent Cap() values in append order.
package ring

import (
	"fmt"
	"sync"
)

// Buffer is a bounded FIFO buffer of capacity fixed at construction. All
// operations are internally serialized, so a Buffer may be shared between
// goroutines without external locking.
type Buffer[T any] struct {
	mu    sync.RWMutex
	items []T
	head  int // index of the oldest element
	size  int
	total uint64 // values ever appended, monotonic
}

// New creates a buffer with the given capacity. It panics if capacity is not
// positive; that is a programmer error, not a runtime condition.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("ring: capacity must be positive, got %d", capacity))
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// Append adds a value in O(1). At capacity the oldest element is overwritten.
func (b *Buffer[T]) Append(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size == len(b.items) {
		b.items[b.head] = v
		b.head = (b.head + 1) % len(b.items)
	} else {
		b.items[(b.head+b.size)%len(b.items)] = v
		b.size++
	}
	b.total++
}

// PopFirst removes and returns the oldest element. The second return value is
// false when the buffer is empty.
func (b *Buffer[T]) PopFirst() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	if b.size == 0 {
		return zero, false
	}
	v := b.items[b.head]
	b.items[b.head] = zero
	b.head = (b.head + 1) % len(b.items)
	b.size--
	return v, true
}

// Elements returns a snapshot of the current contents, oldest first.
func (b *Buffer[T]) Elements() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

// Len returns the number of elements currently held. It equals
// min(TotalAppended, Cap).
func (b *Buffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// IsFull reports whether the next Append will overwrite the oldest element.
func (b *Buffer[T]) IsFull() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size == len(b.items)
}

// TotalAppended returns how many values have ever been appended, including
// values that were overwritten or popped.
func (b *Buffer[T]) TotalAppended() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.total
}

// First returns the oldest element without removing it.
func (b *Buffer[T]) First() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.items[b.head], true
}

// Last returns the most recently appended element without removing it.
func (b *Buffer[T]) Last() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var zero T
	if b.size == 0 {
		return zero, false
	}
	return b.items[(b.head+b.size-1)%len(b.items)], true
}

// Reset discards all current elements. TotalAppended is unaffected.
func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head = 0
	b.size = 0
}
