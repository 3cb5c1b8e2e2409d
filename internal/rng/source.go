// Package rng provides the randomness source and the sampling algorithms used by the draw engine
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	mrand "math/rand/v2"
	"sync"
	"time"
)

// LCG parameters (Numerical Recipes)
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32

	perturbationRatio = 0.1
)

// RandomSource produces uniformly distributed integers in [0, max)
type RandomSource interface {
	NextInt(max int) (int, error)
}

// Source is the default RandomSource. It reads 32-bit values from a strong reader,
// mixes in a perturbation taken from a rolling entropy pool and degrades to a seeded
// linear congruential generator when no strong reader is usable
type Source struct {
	mu sync.Mutex

	strong     io.Reader
	entropy    *EntropyPool
	seed       uint32
	now        func() time.Time
	pseudo     func() float64
	onFallback func()
	started    time.Time
}

// Option configures a Source
type Option func(*Source)

// WithReader replaces crypto/rand.Reader as the strong source
func WithReader(r io.Reader) Option {
	return func(s *Source) {
		s.strong = r
	}
}

// WithoutStrongSource forces the LCG fallback path
func WithoutStrongSource() Option {
	return func(s *Source) {
		s.strong = nil
	}
}

// WithSeed sets the initial LCG seed
func WithSeed(seed uint32) Option {
	return func(s *Source) {
		s.seed = seed
	}
}

// WithClock sets the clock used for entropy collection
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// WithPseudoRandom sets the independent pseudo-random scalar generator, which must return values in [0, 1)
func WithPseudoRandom(f func() float64) Option {
	return func(s *Source) {
		s.pseudo = f
	}
}

// WithFallbackHook registers a callback invoked every time the LCG fallback is used
func WithFallbackHook(f func()) Option {
	return func(s *Source) {
		s.onFallback = f
	}
}

// NewSource creates a Source backed by crypto/rand
func NewSource(opts ...Option) *Source {
	s := &Source{
		strong:  rand.Reader,
		entropy: NewEntropyPool(DefaultEntropyCapacity, DefaultEntropyRetain),
		now:     time.Now,
		pseudo:  mrand.Float64,
	}
	s.seed = uint32(time.Now().UnixMilli() % lcgModulus)
	for _, opt := range opts {
		opt(s)
	}
	s.started = s.now()
	return s
}

// NextInt returns a value in [0, max)
//
// The strong path reduces a 32-bit value modulo max, which leaves a small bias for
// ranges that are not powers of two
func (s *Source) NextInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("%w: max must be positive, got %d", ErrInvalidRange, max)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.readUint32()
	if !ok {
		if s.onFallback != nil {
			s.onFallback()
		}
		return s.lcgInt(max), nil
	}

	base := int(uint64(v) % uint64(max))
	s.collectEntropy()
	sample, ok := s.entropy.Latest()
	if !ok {
		return base, nil
	}
	perturbation := int(math.Floor(sample * float64(max) * perturbationRatio))
	return (base + perturbation) % max, nil
}

// entropySamples returns a copy of the buffered entropy samples
func (s *Source) entropySamples() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entropy.Samples()
}

func (s *Source) readUint32() (uint32, bool) {
	if s.strong == nil {
		return 0, false
	}
	var b [4]byte
	if _, err := io.ReadFull(s.strong, b[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(b[:]), true
}

// collectEntropy pushes one batch of cheap, rapidly changing signals
func (s *Source) collectEntropy() {
	t := s.now()
	elapsed := t.Sub(s.started)
	s.entropy.Push(
		float64(elapsed.Nanoseconds()%1e6)/1e6,
		float64(t.UnixMilli()%1000)/1000,
		s.pseudo(),
		float64(t.Nanosecond()%1e6)/1e6,
	)
}

func (s *Source) lcgInt(max int) int {
	s.seed = uint32((uint64(lcgMultiplier)*uint64(s.seed) + lcgIncrement) % lcgModulus)
	random := float64(s.seed) / lcgModulus
	combined := (random + s.pseudo()) / 2
	n := int(math.Floor(combined * float64(max)))
	if n >= max {
		n = max - 1
	}
	return n
}
