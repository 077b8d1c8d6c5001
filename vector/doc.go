// Package vector implements the vectorized execution engine: runners that
// drive N environment instances in lockstep with reproducible, independent
// randomness per slot.
//
// Two runners are provided. Sync steps every slot in the caller's execution
// context (optionally fanned out over a bounded pool); its semantics are
// identical to N independent sequential single-slot environments. Async
// dedicates one worker goroutine per slot, communicating over per-worker
// request/reply channels, so slow or crashing instances are isolated to their
// slot.
//
// Both runners derive per-slot seeds from one root seed via the seeding
// package, own an indexed arena of Handles (exactly one owner mutates each),
// auto-reset finished episodes, and surface per-slot failures alongside the
// remaining slots' results.
package vector
