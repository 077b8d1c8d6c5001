// Package wrapper provides composable environment decorators.
//
// A wrapper transparently transforms the inputs or outputs of an inner
// environment without changing the Env contract. Composition follows a stack
// discipline: wrapping E with W1 then W2 applies W1's transform first on the
// way in and last on the way out (innermost first). Pipeline depth is
// runtime-configurable since every wrapper is itself an Env.
package wrapper

import "github.com/hupe1980/envmesh/core"

// Base bundles the delegation boilerplate shared by all wrappers. Embed it in
// a concrete wrapper and override the methods whose behavior changes; the rest
// pass through to the wrapped instance unchanged.
type Base struct {
	inner core.Env
}

// NewBase wraps inner for embedding in a concrete wrapper.
func NewBase(inner core.Env) Base {
	return Base{inner: inner}
}

// Inner returns the wrapped environment.
func (b *Base) Inner() core.Env { return b.inner }

// Reset delegates to the wrapped environment.
func (b *Base) Reset(seed *uint64) (any, core.Info, error) { return b.inner.Reset(seed) }

// Step delegates to the wrapped environment.
func (b *Base) Step(action any) (core.Step, error) { return b.inner.Step(action) }

// Render delegates to the wrapped environment.
func (b *Base) Render() *core.RenderFrame { return b.inner.Render() }

// Close delegates to the wrapped environment.
func (b *Base) Close() error { return b.inner.Close() }
