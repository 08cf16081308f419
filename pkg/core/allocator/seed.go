package allocator

import (
	"math/rand/v2"
	"strconv"

	"github.com/zeebo/xxh3"
)

// RandFromSeed builds a deterministic random source from a seed string.
// The same seed always produces the same shuffle order and group names.
func RandFromSeed(seed string) *rand.Rand {
	sum := xxh3.HashString128(seed)
	return rand.New(rand.NewPCG(sum.Hi, sum.Lo))
}

// NewSeed returns a fresh random seed string that can be logged and replayed later
func NewSeed() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}
