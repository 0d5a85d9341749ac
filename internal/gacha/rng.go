package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstract

type RandomSource interface {
	Float64() float64 // [0, 1)
}

// pcgRNG wraps a PCG generator. It is not safe for concurrent use; the
// Engine lock serializes every call.
type pcgRNG struct{ r *rand.Rand }

func (s *pcgRNG) Float64() float64 { return s.r.Float64() }

// NewEntropyRNG seeds one PCG generator from crypto/rand. Called once per
// session; the generator is never reseeded afterwards.
func NewEntropyRNG() RandomSource {
	var buf [16]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to the runtime-seeded global source for the seed only
		return NewSeededRNG(rand.Uint64())
	}
	hi := binary.BigEndian.Uint64(buf[:8])
	lo := binary.BigEndian.Uint64(buf[8:])
	return &pcgRNG{r: rand.New(rand.NewPCG(hi, lo))}
}

// Replicable RNG (e.g. Monte Carlo, tests)
func NewSeededRNG(seed uint64) RandomSource {
	return &pcgRNG{r: rand.New(rand.NewPCG(seed, 0))}
}
