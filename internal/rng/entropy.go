package rng

// Default bounds of the entropy ring buffer
const (
	DefaultEntropyCapacity = 100
	DefaultEntropyRetain   = 50
)

// EntropyPool is a bounded buffer of recent entropy samples in [0, 1)
// When it grows past its capacity it is trimmed to the most recent samples
type EntropyPool struct {
	samples  []float64
	capacity int
	retain   int
}

// NewEntropyPool creates an entropy pool. Non-positive arguments fall back to defaults
func NewEntropyPool(capacity, retain int) *EntropyPool {
	if capacity <= 0 {
		capacity = DefaultEntropyCapacity
	}
	if retain <= 0 || retain > capacity {
		retain = DefaultEntropyRetain
		if retain > capacity {
			retain = capacity
		}
	}
	return &EntropyPool{
		samples:  make([]float64, 0, capacity+8),
		capacity: capacity,
		retain:   retain,
	}
}

// Push appends samples and trims the buffer when it exceeds capacity
func (p *EntropyPool) Push(samples ...float64) {
	p.samples = append(p.samples, samples...)
	if len(p.samples) > p.capacity {
		kept := make([]float64, p.retain, p.capacity+8)
		copy(kept, p.samples[len(p.samples)-p.retain:])
		p.samples = kept
	}
}

// Latest returns the most recent sample
func (p *EntropyPool) Latest() (float64, bool) {
	if len(p.samples) == 0 {
		return 0, false
	}
	return p.samples[len(p.samples)-1], true
}

// Len returns the number of buffered samples
func (p *EntropyPool) Len() int {
	return len(p.samples)
}

// Samples returns a copy of the buffered samples, oldest first
func (p *EntropyPool) Samples() []float64 {
	out := make([]float64, len(p.samples))
	copy(out, p.samples)
	return out
}
