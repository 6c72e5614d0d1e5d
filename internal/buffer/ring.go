package buffer

import (
	"sync"

	"CoinTicker/internal/model"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 100

// Ring is a fixed-capacity FIFO of price samples. The oldest sample is evicted on overflow.
type Ring struct {
	data  []model.PriceSample
	head  int
	count int
	mu    sync.Mutex
}

// New creates an empty Ring holding at most capacity samples.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{data: make([]model.PriceSample, capacity)}
}

// Push appends s at the tail, advancing the head if the buffer is full.
func (r *Ring) Push(s model.PriceSample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := (r.head + r.count) % len(r.data)
	r.data[idx] = s

	if r.count < len(r.data) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.data)
	}
}

// All returns a copy of the buffered samples, oldest first.
func (r *Ring) All() []model.PriceSample {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.PriceSample, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.data) }
