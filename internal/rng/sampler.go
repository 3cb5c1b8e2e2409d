package rng

import "fmt"

// DefaultShuffleThreshold is the largest candidate set sampled with a full shuffle
// Bigger sets use reservoir sampling
const DefaultShuffleThreshold = 1000

// Sampler selects k distinct identifiers from a candidate set
type Sampler struct {
	src       RandomSource
	threshold int
}

// NewSampler creates a Sampler drawing every random choice from src
func NewSampler(src RandomSource) *Sampler {
	return &Sampler{src: src, threshold: DefaultShuffleThreshold}
}

// withThreshold returns a copy of the sampler that switches to reservoir sampling above n candidates
func (s *Sampler) withThreshold(n int) *Sampler {
	return &Sampler{src: s.src, threshold: n}
}

// Sample returns exactly k distinct elements of candidates. The input slice is not modified
// and the output order is unspecified
func (s *Sampler) Sample(candidates []string, k int) ([]string, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: sample size %d", ErrInvalidRange, k)
	}
	if k > len(candidates) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCandidates, k, len(candidates))
	}
	if k == 0 {
		return []string{}, nil
	}
	if len(candidates) <= s.threshold {
		return s.shuffleTake(candidates, k)
	}
	return s.reservoir(candidates, k)
}

// shuffleTake runs a Fisher-Yates shuffle over a copy and keeps the first k
func (s *Sampler) shuffleTake(candidates []string, k int) ([]string, error) {
	shuffled := make([]string, len(candidates))
	copy(shuffled, candidates)
	for i := len(shuffled) - 1; i > 0; i-- {
		j, err := s.src.NextInt(i + 1)
		if err != nil {
			return nil, err
		}
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k:k], nil
}

// reservoir keeps each candidate with probability k/n in a single pass
func (s *Sampler) reservoir(candidates []string, k int) ([]string, error) {
	out := make([]string, k)
	copy(out, candidates[:k])
	for i := k; i < len(candidates); i++ {
		j, err := s.src.NextInt(i + 1)
		if err != nil {
			return nil, err
		}
		if j < k {
			out[j] = candidates[i]
		}
	}
	return out, nil
}
