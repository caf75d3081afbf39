// Package shuffle provides a deterministic, seed-keyed permutation of a
// slice. The same (input, seed) pair yields the same order on every run and
// every process, which lets callers recompute a trainee's view instead of
// persisting it.
package shuffle

// Fallback state words when the seed folds to zero; an all-zero xorshift
// state would emit zeros forever.
const (
	fallbackX = 0x9e3779b9
	fallbackY = 0x85ebca6b
)

// source is a two-word xorshift generator seeded from a string.
type source struct {
	x, y uint32
}

// newSource folds each rune of the seed into two independent hash words so
// that short seeds, and seeds differing only in a structured suffix, still
// produce divergent states.
func newSource(seed string) source {
	var x, y uint32
	for _, r := range seed {
		c := uint32(r)
		x = x*31 + c
		y = (y << 6) + (y >> 2) + c*2654435761
	}
	if x == 0 {
		x = fallbackX
	}
	if y == 0 {
		y = fallbackY
	}
	return source{x: x, y: y}
}

// next advances the state and returns a value in [0, 1).
func (s *source) next() float64 {
	t := s.x ^ (s.x << 11)
	s.x = s.y
	s.y = (s.y ^ (s.y >> 19)) ^ (t ^ (t >> 8))
	return float64(s.y) / (1 << 32)
}

// Shuffle returns a new slice holding a deterministic permutation of items
// keyed by seed. The input is never mutated; slices of length 0 or 1 come
// back as a fresh copy.
func Shuffle[T any](items []T, seed string) []T {
	out := make([]T, len(items))
	copy(out, items)
	if len(out) < 2 {
		return out
	}
	src := newSource(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(src.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
