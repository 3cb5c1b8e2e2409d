package rng

import "errors"

var (
	// ErrInvalidRange is returned when a random value is requested for an empty range
	ErrInvalidRange = errors.New("rng: invalid range")
	// ErrInsufficientCandidates is returned when more samples are requested than candidates exist
	ErrInsufficientCandidates = errors.New("rng: insufficient candidates")
)
