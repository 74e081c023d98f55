// Package sampling draws the reproducible random samples of a run.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	// ErrInvalidFraction is returned for a fraction outside (0, 1]
	ErrInvalidFraction = errors.New("fraction must be in (0, 1]")
	// ErrInsufficientPopulation is returned when more elements are requested than available
	ErrInsufficientPopulation = errors.New("sample larger than population")
	// ErrInvalidSampleSize is returned for a negative sample size
	ErrInvalidSampleSize = errors.New("sample size must not be negative")
)

// Sampler holds the random source shared by both sampling steps of a run
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler. A nil seed draws one at random,
// a fixed seed makes every sample of the sampler reproducible.
func NewSampler(seed *uint64) *Sampler {
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		s = rand.Uint64()
	}
	return &Sampler{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// AnnotationSampleSize returns floor(total * fraction)
func AnnotationSampleSize(total int, fraction float64) int {
	return int(math.Floor(float64(total) * fraction))
}

// Shuffle returns a uniformly shuffled copy of items
func Shuffle[T any](s *Sampler, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// AnnotationSample shuffles the headlines and keeps the first floor(len * fraction).
// The input slice is left untouched.
func (s *Sampler) AnnotationSample(headlines []string, fraction float64) ([]string, error) {
	if math.IsNaN(fraction) || fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFraction, fraction)
	}

	shuffled := Shuffle(s, headlines)
	return shuffled[:AnnotationSampleSize(len(shuffled), fraction)], nil
}

// Sample draws k distinct elements of items uniformly without replacement
func Sample[T any](s *Sampler, items []T, k int) ([]T, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleSize, k)
	}
	if k > len(items) {
		return nil, fmt.Errorf("%w: requested %d, population %d", ErrInsufficientPopulation, k, len(items))
	}

	// partial Fisher-Yates over the indices
	indices := make([]int, len(items))
	for i := range indices {
		indices[i] = i
	}
	sample := make([]T, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		sample[i] = items[indices[i]]
	}

	return sample, nil
}
