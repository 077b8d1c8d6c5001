package wrapper

import "github.com/hupe1980/envmesh/core"

// TimeLimit enforces a maximum number of steps per episode. It tracks elapsed
// steps itself and forces Truncated once the maximum is reached. Truncation is
// ORed into the inner step result; a true environment-native Terminated is
// never overwritten, so a step may legitimately report both.
type TimeLimit struct {
	Base
	maxSteps int
	steps    int
}

// NewTimeLimit wraps inner with a step limit. maxSteps must be >= 1.
func NewTimeLimit(inner core.Env, maxSteps int) *TimeLimit {
	return &TimeLimit{Base: NewBase(inner), maxSteps: maxSteps}
}

// Reset clears the step counter and resets the wrapped environment.
func (t *TimeLimit) Reset(seed *uint64) (any, core.Info, error) {
	t.steps = 0
	return t.Base.Reset(seed)
}

// Step advances the wrapped environment and applies the limit.
func (t *TimeLimit) Step(action any) (core.Step, error) {
	s, err := t.Base.Step(action)
	if err != nil {
		return s, err
	}
	t.steps++
	if t.steps >= t.maxSteps {
		s.Truncated = true
	}
	return s, nil
}
