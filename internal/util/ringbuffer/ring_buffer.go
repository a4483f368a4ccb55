package ring_buffer

import "sync"

const DefaultCapacity = 200

// RingBuffer is a fixed-capacity buffer that keeps the most recently pushed
// items. When full, a push overwrites the oldest item.
//
// All methods are safe for concurrent use. List always returns a copy taken
// under the read lock, so readers never see a partially applied push.
type RingBuffer[T any] struct {
	mutex    sync.RWMutex
	items    []T
	capacity int
	// writePosition is the slot the next push goes to (0 to capacity-1).
	writePosition int
	size          int
}

// New creates a ring buffer holding at most capacity items. A non-positive
// capacity falls back to DefaultCapacity.
func New[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &RingBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

func (ring *RingBuffer[T]) Push(item T) {
	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	ring.items[ring.writePosition] = item
	ring.writePosition = (ring.writePosition + 1) % ring.capacity
	if ring.size < ring.capacity {
		ring.size++
	}
}

// List returns up to limit items, newest first. A limit <= 0 returns
// everything currently held.
func (ring *RingBuffer[T]) List(limit int) []T {
	ring.mutex.RLock()
	defer ring.mutex.RUnlock()

	count := ring.size
	if limit > 0 && limit < count {
		count = limit
	}

	result := make([]T, 0, count)
	position := ring.writePosition
	for range count {
		position = (position - 1 + ring.capacity) % ring.capacity
		result = append(result, ring.items[position])
	}

	return result
}

func (ring *RingBuffer[T]) Len() int {
	ring.mutex.RLock()
	defer ring.mutex.RUnlock()

	return ring.size
}

func (ring *RingBuffer[T]) Capacity() int {
	return ring.capacity
}
