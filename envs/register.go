package envs

import (
	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/registry"
	"github.com/hupe1980/envmesh/seeding"
)

// defaultConstructionSeed seeds instances built without an explicit seed; the
// runners reseed every instance from the derived seed stream on first reset,
// so this value never influences a vectorized run.
const defaultConstructionSeed uint64 = 1234567

// RegisterAll adds the bundled environments to r. When r is nil the default
// registry is used.
func RegisterAll(r *registry.Registry) error {
	if r == nil {
		r = registry.Default
	}
	if err := r.Register(CartPoleSpec(), func() (core.Env, error) {
		return NewCartPole(defaultConstructionSeed), nil
	}); err != nil {
		return err
	}
	return r.Register(MountainCarSpec(), func() (core.Env, error) {
		return NewMountainCar(defaultConstructionSeed), nil
	})
}

// NewSeededFactory adapts a seed-taking constructor into a core.Factory that
// hands each new instance the next sub-seed of its own sequence.
func NewSeededFactory(root uint64, ctor func(seed uint64) (core.Env, error)) core.Factory {
	seq := seeding.NewSeedSequence(root)
	return func() (core.Env, error) {
		return ctor(seq.NextSubseed())
	}
}
