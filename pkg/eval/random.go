package eval

import "math/rand"

// Random is a randomized noise generator used to add a small amount of
// variety to leaf evaluations. The limit specifies the half-open range
// [-limit/2; limit/2] in score units. The zero value always returns zero,
// which keeps searches deterministic.
type Random struct {
	rand  *rand.Rand
	limit int
}

// NewRandom creates a noise generator with the given limit and seed.
func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

// Sample returns the next noise value.
func (n Random) Sample() Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
