// Package envs bundles classic-control reference environments. They exist to
// exercise the runtime: transition dynamics follow the well-known Gymnasium
// formulations closely enough for realistic rollouts, with deterministic
// seeded behavior as the primary guarantee.
package envs
