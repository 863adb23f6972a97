package randutil

import (
	rand "math/rand/v2"
	"sync"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Source hands out one generator per table. A *rand.Rand is not safe for
// concurrent use, so tables never share one.
type Source struct {
	mu   sync.Mutex
	root *rand.Rand
}

// NewSource derives every table generator from seed, making a whole server
// run reproducible.
func NewSource(seed int64) *Source {
	return &Source{root: New(seed)}
}

// NewRandomSource seeds from the process-wide generator.
func NewRandomSource() *Source {
	return NewSource(rand.Int64())
}

// NewSourceFrom uses seed when set and a random seed otherwise.
func NewSourceFrom(seed *int64) *Source {
	if seed == nil {
		return NewRandomSource()
	}
	return NewSource(*seed)
}

// Next returns a fresh independent generator.
func (s *Source) Next() *rand.Rand {
	s.mu.Lock()
	hi, lo := s.root.Uint64(), s.root.Uint64()
	s.mu.Unlock()
	return rand.New(rand.NewPCG(mix(hi), mix(lo^goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
