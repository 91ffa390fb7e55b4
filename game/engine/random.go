package engine

import (
	"time"

	"golang.org/x/exp/rand"
)

// RandSource yields integers for food placement
type RandSource interface {
	// IntRange returns an integer in [lo, hi)
	IntRange(lo, hi int) int
}

type xrandSource struct {
	r *rand.Rand
}

// NewRandSource returns a RandSource seeded with seed
func NewRandSource(seed uint64) RandSource {
	return &xrandSource{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRandSource returns a RandSource seeded from the clock
func NewTimeSeededRandSource() RandSource {
	return NewRandSource(uint64(time.Now().UnixNano()))
}

func (x *xrandSource) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + x.r.Intn(hi-lo)
}
