// Package seeding provides deterministic seed-stream derivation and
// reproducible PRNG streams for vectorized environment execution.
//
// A SeedSequence expands one root seed into any number of statistically
// independent child seeds via SplitMix64 mixing over a widened 128-bit state.
// Every consumer holds its own generator instance constructed from its derived
// seed; there is no global mutable generator state anywhere in the module.
package seeding

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/bits"
	mrand "math/rand/v2"

	"github.com/hupe1980/envmesh/core"
)

// SplitMix64 constants, chosen for good bit diffusion.
const (
	golden = 0x9E3779B97F4A7C15
	mixA   = 0xBF58476D1CE4E5B9
	mixB   = 0x94D049BB133111EB
)

// SeedSequence deterministically expands a root seed into sub-seeds. The state
// is kept at 128 bits (hi/lo words) so successive sub-seeds do not ride a
// trivial 64-bit cycle; mixing evolves the full state while the output path is
// the standard SplitMix64 finalizer.
type SeedSequence struct {
	hi, lo uint64
}

// NewSeedSequence creates a sequence rooted at seed. Two sequences built from
// the same seed yield byte-identical sub-seed streams.
func NewSeedSequence(seed uint64) *SeedSequence {
	return &SeedSequence{lo: seed ^ golden}
}

// NextSubseed produces the next sub-seed and advances the internal state.
func (s *SeedSequence) NextSubseed() uint64 {
	z := s.lo + golden

	// Evolve the 128-bit state: xor in z, then multiply the whole state by a
	// 64-bit mixing constant modulo 2^128.
	s.lo ^= z
	carry, lo := bits.Mul64(s.lo, mixA)
	s.lo = lo
	s.hi = s.hi*mixA + carry

	z = (z ^ (z >> 30)) * mixA
	z = (z ^ (z >> 27)) * mixB
	return z ^ (z >> 31)
}

// NextRNG constructs a fresh PRNG stream seeded from the next sub-seed.
func (s *SeedSequence) NextRNG() *mrand.Rand {
	return NewRNG(s.NextSubseed())
}

// SplitN produces n sub-seeds from this sequence.
func (s *SeedSequence) SplitN(n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = s.NextSubseed()
	}
	return seeds
}

// Derive expands root into n pairwise-distinct child seeds, one per
// environment slot. Calling Derive twice with the same arguments yields
// identical results; the sync and async runners share this single derivation
// path so their streams agree.
func Derive(root uint64, n int) ([]uint64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative slot count %d", core.ErrSeedDerivation, n)
	}
	return NewSeedSequence(root).SplitN(n), nil
}

// NewRNG constructs a reproducible ChaCha8-backed generator from a 64-bit
// seed. The 256-bit ChaCha8 key is filled by SplitMix64 expansion of the seed.
func NewRNG(seed uint64) *mrand.Rand {
	var key [32]byte
	sm := seed
	for i := 0; i < 4; i++ {
		sm += golden
		z := sm
		z = (z ^ (z >> 30)) * mixA
		z = (z ^ (z >> 27)) * mixB
		z ^= z >> 31
		binary.LittleEndian.PutUint64(key[i*8:], z)
	}
	return mrand.New(mrand.NewChaCha8(key))
}

// RootSeed resolves an optional caller-supplied root seed. When seed is nil a
// fresh root is drawn from the process entropy source.
func RootSeed(seed *uint64) (uint64, error) {
	if seed != nil {
		return *seed, nil
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("%w: reading entropy: %v", core.ErrSeedDerivation, err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
