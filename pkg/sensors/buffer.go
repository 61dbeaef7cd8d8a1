package sensors

import "sort"

// TimedSample is a value stamped with its capture time in seconds.
type TimedSample[T any] struct {
	T     float64
	Value T
}

// TimedBuffer is a bounded, timestamp-sorted sample store. When the
// buffer overflows, the oldest samples are evicted from the front.
type TimedBuffer[T any] struct {
	capacity int
	samples  []TimedSample[T]
}

// NewTimedBuffer creates a buffer holding at most capacity samples.
// Capacities below one are treated as one.
func NewTimedBuffer[T any](capacity int) *TimedBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &TimedBuffer[T]{
		capacity: capacity,
		samples:  make([]TimedSample[T], 0, capacity),
	}
}

// Push inserts a sample, keeps the buffer sorted ascending by
// timestamp, and truncates the oldest entries on overflow. Out-of-order
// arrival is expected from real sensors.
func (b *TimedBuffer[T]) Push(t float64, v T) {
	b.samples = append(b.samples, TimedSample[T]{T: t, Value: v})
	sort.SliceStable(b.samples, func(i, j int) bool {
		return b.samples[i].T < b.samples[j].T
	})
	if len(b.samples) > b.capacity {
		b.samples = b.samples[len(b.samples)-b.capacity:]
	}
}

// NearestAtOrBefore returns the newest sample with timestamp <= t.
// The lookup is strictly causal: no interpolation or extrapolation is
// ever performed, so a frame can only see sensor data from its past.
func (b *TimedBuffer[T]) NearestAtOrBefore(t float64) (TimedSample[T], bool) {
	for i := len(b.samples) - 1; i >= 0; i-- {
		if b.samples[i].T <= t {
			return b.samples[i], true
		}
	}
	var zero TimedSample[T]
	return zero, false
}

// Len returns the number of buffered samples.
func (b *TimedBuffer[T]) Len() int {
	return len(b.samples)
}

// Clear discards all buffered samples.
func (b *TimedBuffer[T]) Clear() {
	b.samples = b.samples[:0]
}
