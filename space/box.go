package space

import "math/rand/v2"

// Box is a bounded n-dimensional continuous space. Elements are []float64
// with one entry per dimension, each inside the closed interval
// [Low[i], High[i]].
type Box struct {
	Low  []float64
	High []float64
}

// NewBox returns a box with the given per-dimension bounds. Low and high must
// have equal length.
func NewBox(low, high []float64) *Box {
	if len(low) != len(high) {
		panic("space: box bounds must have equal length")
	}
	return &Box{Low: low, High: high}
}

// Dims returns the number of dimensions.
func (b *Box) Dims() int { return len(b.Low) }

// Sample draws a uniform element, per dimension in [Low[i], High[i]).
func (b *Box) Sample(rng *rand.Rand) any {
	v := make([]float64, len(b.Low))
	for i := range v {
		v[i] = b.Low[i] + rng.Float64()*(b.High[i]-b.Low[i])
	}
	return v
}

// Contains accepts []float64 values of matching dimensionality within bounds.
func (b *Box) Contains(value any) bool {
	v, ok := value.([]float64)
	if !ok || len(v) != len(b.Low) {
		return false
	}
	for i := range v {
		if v[i] < b.Low[i] || v[i] > b.High[i] {
			return false
		}
	}
	return true
}
