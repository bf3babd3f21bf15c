package synth

import (
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Source is the random source used by the synthesizer and by the control
// writers for fallback choices.
type Source interface {
	// IntRange returns a uniform integer in [lo, hi].
	IntRange(lo, hi int) int
	// Bool returns an unbiased coin flip.
	Bool() bool
}

// fakerSource serializes access to a gofakeit Faker. Continuations of a pass
// may draw from the same source as the pass itself.
type fakerSource struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewSource returns a Source backed by gofakeit. A seed of 0 selects a
// random seed; any other value makes the sequence reproducible.
func NewSource(seed uint64) Source {
	return &fakerSource{faker: gofakeit.New(seed)}
}

func (s *fakerSource) IntRange(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hi <= lo {
		return lo
	}
	return s.faker.IntRange(lo, hi)
}

func (s *fakerSource) Bool() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Bool()
}

// Pick returns a uniformly chosen element. It returns the zero value for an
// empty slice.
func Pick[T any](src Source, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[src.IntRange(0, len(items)-1)]
}

// Shuffle returns a shuffled copy of items (Fisher-Yates).
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntRange(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Stepped returns a uniform value in [lo, hi] that is a multiple of step
// above lo. A step of 1 or less is a plain IntRange.
func Stepped(src Source, lo, hi, step int) int {
	if step <= 1 {
		return src.IntRange(lo, hi)
	}
	steps := (hi - lo) / step
	return lo + src.IntRange(0, steps)*step
}
