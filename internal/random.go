package internal

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies the bytes consumed by CXNN.
type RandomSource interface {
	Uint8() uint8
}

// RandomSourceFunc adapts a plain function to RandomSource.
type RandomSourceFunc func() uint8

// Uint8 calls f.
func (f RandomSourceFunc) Uint8() uint8 {
	return f()
}

type pcgSource struct {
	r *rand.Rand
}

// NewRandomSource returns a PCG backed source. A zero seed picks one from the clock.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (s *pcgSource) Uint8() uint8 {
	return uint8(s.r.IntN(256))
}
