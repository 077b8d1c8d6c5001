// Package space defines the action/observation space collaborator consumed by
// the vector runners. Runners call Contains on every incoming action before
// stepping and treat a validation failure as an invalid-action error; Sample
// draws a random member using a caller-owned generator.
package space

import "math/rand/v2"

// Space is implemented by all spaces. Values are dynamically typed; each
// implementation documents the concrete element type it produces and accepts.
type Space interface {
	// Sample draws a random element of the space using rng.
	Sample(rng *rand.Rand) any

	// Contains reports whether value is a valid member of the space.
	Contains(value any) bool
}
