// Package envmesh provides a high-level façade over the vectorized
// environment runtime: typed environment contracts (core), deterministic seed
// streams (seeding), composable wrappers (wrapper), the sync/async vector
// runners (vector) and the id-based registry (registry). Most applications
// interact with this package by:
//  1. Registering environments (envs.RegisterAll or registry.Register)
//  2. Creating a runner via NewSync / NewAsync / MakeSync / MakeAsync
//  3. Driving batched rollouts with Reset and Step
//
// The façade delegates execution to vector.Sync / vector.Async while keeping
// setup ergonomics concise. All defaults are safe for local development;
// reproducible experiments supply a fixed root seed and a structured logger.
package envmesh

import (
	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/registry"
	"github.com/hupe1980/envmesh/vector"
)

// NewSync builds a synchronous vector runner over n instances of factory.
func NewSync(n int, factory core.Factory, optFns ...func(o *vector.Options)) (*vector.Sync, error) {
	return vector.NewSync(replicate(n, factory), optFns...)
}

// NewAsync builds an asynchronous vector runner over n instances of factory,
// one worker goroutine per slot.
func NewAsync(n int, factory core.Factory, optFns ...func(o *vector.Options)) (*vector.Async, error) {
	return vector.NewAsync(replicate(n, factory), optFns...)
}

// MakeSync builds a synchronous vector runner over n instances of the
// registered environment id. The registered spec's TimeLimit is already
// applied by the registry factory.
func MakeSync(id string, n int, optFns ...func(o *vector.Options)) (*vector.Sync, error) {
	factories, err := registry.Factories(id, n)
	if err != nil {
		return nil, err
	}
	return vector.NewSync(factories, optFns...)
}

// MakeAsync builds an asynchronous vector runner over n instances of the
// registered environment id.
func MakeAsync(id string, n int, optFns ...func(o *vector.Options)) (*vector.Async, error) {
	factories, err := registry.Factories(id, n)
	if err != nil {
		return nil, err
	}
	return vector.NewAsync(factories, optFns...)
}

func replicate(n int, factory core.Factory) []core.Factory {
	factories := make([]core.Factory, n)
	for i := range factories {
		factories[i] = factory
	}
	return factories
}
