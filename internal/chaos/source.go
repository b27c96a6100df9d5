// Package chaos provides the seeded pseudo-random source used wherever
// reproducible output is required (naming, artwork). Every consumer owns its
// own *Source instance; nothing in this package touches math/rand or any
// other shared random state.
package chaos

import "time"

const lcgModulus = 1<<31 - 1

// Source is a linear congruential generator. It is deliberately small and
// deterministic: two Sources built from the same seed produce identical
// streams. Source is not safe for concurrent use; give each goroutine its
// own instance.
type Source struct {
	state int64
}

// NewSource returns a Source seeded from seed. Seed zero is remapped so the
// generator never gets stuck on the LCG fixed point.
func NewSource(seed int64) *Source {
	s := seed % lcgModulus
	if s < 0 {
		s = -s
	}
	if s == 0 {
		s = 1
	}
	return &Source{state: s}
}

// NewTimeSource returns a Source seeded from the wall clock, for callers that
// want varied rather than reproducible output.
func NewTimeSource() *Source {
	return NewSource(time.Now().UnixNano())
}

// next advances the generator one step.
func (s *Source) next() int64 {
	s.state = (s.state*1664525 + 1013904223) % lcgModulus
	return s.state
}

// Float64 returns a value in [0,1).
func (s *Source) Float64() float64 {
	return float64(s.next()) / float64(lcgModulus)
}

// IntN returns a value in [0,n). Panics if n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		panic("chaos: IntN called with non-positive n")
	}
	return int(s.Float64() * float64(n))
}

// Range returns a value in [lo,hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.Float64() < p
}

// Pick returns a uniformly chosen element of choices. Panics on an empty slice.
func Pick[T any](s *Source, choices []T) T {
	return choices[s.IntN(len(choices))]
}

// Fork derives a new independent Source from the current stream. Concurrent
// tasks should each receive a Fork rather than sharing one Source.
func (s *Source) Fork() *Source {
	return NewSource(s.next()*31 + 7)
}
