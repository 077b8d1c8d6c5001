package core

// Step is the result of advancing an environment by one transition.
//
// Terminated signals an environment-defined end state (success or failure).
// Truncated signals an external cutoff such as a time limit, unrelated to the
// environment's own semantics. Both may be true in the same step when the
// environment legitimately reaches both conditions at once.
type Step struct {
	Observation any
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// NewStep bundles the step fields into a Step value.
func NewStep(observation any, reward float64, terminated, truncated bool, info Info) Step {
	return Step{
		Observation: observation,
		Reward:      reward,
		Terminated:  terminated,
		Truncated:   truncated,
		Info:        info,
	}
}

// Done reports whether the episode ended on this step, for either reason.
func (s Step) Done() bool { return s.Terminated || s.Truncated }
