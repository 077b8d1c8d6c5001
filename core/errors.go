package core

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Runners and environments wrap these sentinels with
// fmt.Errorf("...: %w", ...) so callers can classify failures via errors.Is.
var (
	// ErrInvalidAction marks an action that failed action-space validation.
	ErrInvalidAction = errors.New("invalid action")

	// ErrShapeMismatch marks a batch whose size differs from the configured
	// slot count. It is rejected before any slot work begins.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrClosed marks an operation attempted after Close.
	ErrClosed = errors.New("environment closed")

	// ErrWorkerTimeout marks an async worker that missed its reply deadline.
	ErrWorkerTimeout = errors.New("worker timeout")

	// ErrWorkerCrashed marks an async worker that terminated unexpectedly.
	// The slot stays failed for the remainder of the run; an automatic
	// restart would desynchronize the slot's seed stream.
	ErrWorkerCrashed = errors.New("worker crashed")

	// ErrNotReady marks a Step attempted outside the ready state, either
	// before the first Reset or after an episode ended with auto-reset
	// disabled.
	ErrNotReady = errors.New("environment not ready")

	// ErrSeedDerivation marks a failure to derive child seeds, such as a
	// negative stream length.
	ErrSeedDerivation = errors.New("seed derivation failure")

	// ErrNotFound marks a lookup of an unregistered environment id.
	ErrNotFound = errors.New("environment not found")
)

// SlotError attributes an error to a single slot of a vectorized batch.
// Per-slot errors never abort unrelated slots; they travel alongside the
// successful slots' results.
type SlotError struct {
	Slot int
	Err  error
}

// NewSlotError wraps err with its originating slot index.
func NewSlotError(slot int, err error) *SlotError {
	return &SlotError{Slot: slot, Err: err}
}

// Error implements the error interface.
func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d: %v", e.Slot, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *SlotError) Unwrap() error { return e.Err }
