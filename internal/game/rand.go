package game

import (
	"math/rand"

	"lukechampine.com/frand"
)

// Source supplies the uniform tie-breaks. *rand.Rand and *frand.RNG both
// satisfy it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a deterministic source for a non-zero seed and a
// frand generator otherwise.
func NewSource(seed int64) Source {
	if seed != 0 {
		return rand.New(rand.NewSource(seed))
	}
	return frand.New()
}
