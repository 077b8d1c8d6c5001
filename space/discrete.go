package space

import "math/rand/v2"

// Discrete is the space of integers {Start, ..., Start+N-1}. Elements are int.
type Discrete struct {
	// N is the number of elements; must be >= 1.
	N int
	// Start is the smallest element, usually 0.
	Start int
}

// NewDiscrete returns the space {0, ..., n-1}.
func NewDiscrete(n int) *Discrete {
	return &Discrete{N: n}
}

// Sample draws a uniform element.
func (d *Discrete) Sample(rng *rand.Rand) any {
	return d.Start + rng.IntN(d.N)
}

// Contains accepts int values inside the range.
func (d *Discrete) Contains(value any) bool {
	v, ok := value.(int)
	if !ok {
		return false
	}
	return v >= d.Start && v < d.Start+d.N
}
