// Package core provides the foundational domain types and interfaces used by
// EnvMesh. It defines the core abstractions for:
//
//   - Environments (the reset/step/close state machine every instance implements)
//   - Steps (per-transition records: observation, reward, termination signals, info)
//   - Info (a small ordered string-keyed metadata map attached to steps and resets)
//   - RenderFrame (optional textual or pixel render output)
//   - EnvSpec (static environment metadata consumed by wrappers and runners)
//   - The shared error taxonomy surfaced by runners and environments
//
// The package intentionally keeps implementation concerns (concrete
// environments, vectorized execution, wrapper pipelines) out of scope, exposing
// small interfaces to enable custom backends and extensions.
package core
