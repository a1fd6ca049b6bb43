package window

import (
	"math"
	"sync"
)

// Window is a fixed-capacity FIFO of float64 measurements. Pushing into a
// full window evicts the oldest value. Derived metrics (Mean, StdDev) are
// computed from whatever is currently in the window.
type Window struct {
	mu   sync.RWMutex
	vals []float64
	cap  int
}

// New creates a window with the given capacity. Capacity must be positive;
// anything else defaults to 10.
func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = 10
	}
	return &Window{vals: make([]float64, 0, capacity), cap: capacity}
}

// Push appends v at the tail, evicting the head if the window is full.
func (w *Window) Push(v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.vals) == w.cap {
		copy(w.vals, w.vals[1:])
		w.vals = w.vals[:w.cap-1]
	}
	w.vals = append(w.vals, v)
}

// Len returns the number of values currently held.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.vals)
}

// Values returns a copy of the window contents, oldest first.
func (w *Window) Values() []float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]float64, len(w.vals))
	copy(out, w.vals)
	return out
}

// Mean returns the arithmetic mean of the window, or 0 if empty.
func (w *Window) Mean() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.vals {
		sum += v
	}
	return sum / float64(len(w.vals))
}

// StdDev returns the population standard deviation of the window.
// Returns 0 when fewer than two values are present.
func (w *Window) StdDev() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := len(w.vals)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range w.vals {
		sum += v
	}
	mean := sum / float64(n)
	var sq float64
	for _, v := range w.vals {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n))
}

// Reset discards all values.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vals = w.vals[:0]
}
