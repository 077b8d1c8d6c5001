package core

// Env is the core environment contract following the Gymnasium semantics.
//
// Lifecycle: an instance starts unstarted, becomes ready after the first
// Reset, alternates between ready states via Step (each step may mark the
// episode terminated and/or truncated) and ends with Close, after which every
// call fails with ErrClosed.
//
// Implementations are not required to be safe for concurrent use; the vector
// runners guarantee exactly one owner per instance.
type Env interface {
	// Reset transitions the environment to the start of a fresh episode and
	// returns the initial observation plus reset metadata. When seed is
	// non-nil the implementation must replace its internal generator with one
	// seeded from it. Reset is valid in any non-closed state and always
	// clears episode bookkeeping.
	Reset(seed *uint64) (any, Info, error)

	// Step applies an action and advances the environment by one transition.
	// It is only valid after a successful Reset. Implementations return
	// ErrInvalidAction (wrapped) for actions outside their action space.
	Step(action any) (Step, error)

	// Render returns a frame of the current state, or nil when rendering is
	// unsupported. Render never advances environment state.
	Render() *RenderFrame

	// Close releases resources held by the environment. It is idempotent;
	// after the first call Reset and Step fail with ErrClosed.
	Close() error
}

// Factory constructs a fresh, unstarted environment instance. Vector runners
// invoke a factory exactly once per slot and never construct instances
// themselves.
type Factory func() (Env, error)
