package core

// EnvSpec is static environment metadata. It is read-only once an instance is
// constructed; runners and wrappers consult it but never mutate it.
type EnvSpec struct {
	// ID uniquely identifies the environment, e.g. "CartPole-v1".
	ID string `yaml:"id"`

	// MaxEpisodeSteps is the suggested episode step limit enforced by the
	// TimeLimit wrapper. Zero means no limit.
	MaxEpisodeSteps int `yaml:"max_episode_steps"`

	// RewardThreshold is the target return at which the environment counts
	// as solved, if defined.
	RewardThreshold *float64 `yaml:"reward_threshold,omitempty"`

	// Nondeterministic reports inherent nondeterminism beyond RNG seeding.
	Nondeterministic bool `yaml:"nondeterministic"`

	// OrderEnforce requires reset-before-step ordering to be enforced.
	OrderEnforce bool `yaml:"order_enforce"`

	// Version is a free-form version string.
	Version string `yaml:"version,omitempty"`
}

// NewEnvSpec returns a spec for id with order enforcement enabled and no
// episode limit.
func NewEnvSpec(id string) EnvSpec {
	return EnvSpec{ID: id, OrderEnforce: true}
}
