package rng

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSource replays fixed values, reduced into range
type sequenceSource struct {
	values []int
	calls  int
}

func (s *sequenceSource) NextInt(max int) (int, error) {
	v := s.values[s.calls%len(s.values)]
	s.calls++
	return v % max, nil
}

func identifiers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%04d", i+1)
	}
	return out
}

func TestSamplerReturnsDistinctMembers(t *testing.T) {
	tests := []struct {
		name string
		size int
		k    int
	}{
		{"shuffle small", 10, 3},
		{"shuffle whole set", 50, 50},
		{"shuffle at threshold", DefaultShuffleThreshold, 25},
		{"reservoir", DefaultShuffleThreshold + 500, 40},
		{"reservoir whole set", DefaultShuffleThreshold + 1, DefaultShuffleThreshold + 1},
	}

	sampler := NewSampler(NewSource())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := identifiers(tt.size)
			members := make(map[string]bool, len(candidates))
			for _, c := range candidates {
				members[c] = true
			}

			got, err := sampler.Sample(candidates, tt.k)
			require.NoError(t, err)
			require.Len(t, got, tt.k)

			seen := make(map[string]bool, len(got))
			for _, id := range got {
				assert.True(t, members[id], "unexpected identifier %s", id)
				assert.False(t, seen[id], "duplicate identifier %s", id)
				seen[id] = true
			}
		})
	}
}

func TestSamplerDoesNotMutateInput(t *testing.T) {
	sampler := NewSampler(NewSource())
	for _, size := range []int{20, DefaultShuffleThreshold + 20} {
		candidates := identifiers(size)
		original := append([]string(nil), candidates...)
		_, err := sampler.Sample(candidates, 10)
		require.NoError(t, err)
		assert.Equal(t, original, candidates)
	}
}

func TestSamplerErrors(t *testing.T) {
	sampler := NewSampler(NewSource())

	_, err := sampler.Sample(identifiers(3), 4)
	require.ErrorIs(t, err, ErrInsufficientCandidates)
	assert.Contains(t, err.Error(), "need 4, have 3")

	_, err = sampler.Sample(identifiers(3), -1)
	require.ErrorIs(t, err, ErrInvalidRange)

	got, err := sampler.Sample(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSamplerShuffleWithFixedSource(t *testing.T) {
	// Always choosing j = 0 rotates the first element to the end of each prefix
	src := &sequenceSource{values: []int{0}}
	got, err := NewSampler(src).Sample([]string{"a", "b", "c", "d"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)
	assert.Equal(t, 3, src.calls)
}

func TestSamplerReservoirWithFixedSource(t *testing.T) {
	// j = i for every i >= k never replaces anything
	src := &sequenceSource{values: []int{59}}
	sampler := NewSampler(src).withThreshold(2)
	candidates := []string{"a", "b", "c", "d", "e"}

	got, err := sampler.Sample(candidates, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 3, src.calls)
}

func TestSamplerReservoirReplacesSlot(t *testing.T) {
	src := &sequenceSource{values: []int{1, 7, 0}}
	sampler := NewSampler(src).withThreshold(2)

	got, err := sampler.Sample([]string{"a", "b", "c", "d", "e"}, 2)
	require.NoError(t, err)
	// i=2 j=1 -> [a c]; i=3 j=7%4=3 -> no change; i=4 j=0 -> [e c]
	assert.Equal(t, []string{"e", "c"}, got)
}

func TestSamplerIsRoughlyUniform(t *testing.T) {
	sampler := NewSampler(NewSource())
	candidates := identifiers(5)
	counts := make(map[string]int)
	const trials = 5000
	for i := 0; i < trials; i++ {
		got, err := sampler.Sample(candidates, 1)
		require.NoError(t, err)
		counts[got[0]]++
	}
	for _, c := range candidates {
		assert.InDelta(t, trials/5, counts[c], trials/10, "candidate %s", c)
	}
}
