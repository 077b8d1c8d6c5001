package wrapper

import "github.com/hupe1980/envmesh/core"

// TransformObservation maps observations through a user-supplied pure
// function. The function receives reset observations as well as step
// observations.
type TransformObservation struct {
	Base
	fn func(any) any
}

// NewTransformObservation wraps inner with an observation transform.
func NewTransformObservation(inner core.Env, fn func(any) any) *TransformObservation {
	return &TransformObservation{Base: NewBase(inner), fn: fn}
}

// Reset resets the wrapped environment and transforms the initial observation.
func (t *TransformObservation) Reset(seed *uint64) (any, core.Info, error) {
	obs, info, err := t.Base.Reset(seed)
	if err != nil {
		return nil, info, err
	}
	return t.fn(obs), info, nil
}

// Step advances the wrapped environment and transforms the observation.
func (t *TransformObservation) Step(action any) (core.Step, error) {
	s, err := t.Base.Step(action)
	if err != nil {
		return s, err
	}
	s.Observation = t.fn(s.Observation)
	return s, nil
}

// TransformAction maps incoming actions into the wrapped environment's action
// type before they reach the inner instance.
type TransformAction struct {
	Base
	fn func(any) any
}

// NewTransformAction wraps inner with an action transform.
func NewTransformAction(inner core.Env, fn func(any) any) *TransformAction {
	return &TransformAction{Base: NewBase(inner), fn: fn}
}

// Step transforms the action then advances the wrapped environment.
func (t *TransformAction) Step(action any) (core.Step, error) {
	return t.Base.Step(t.fn(action))
}

// TransformReward maps rewards through a user-supplied function, e.g. scaling
// or sign extraction.
type TransformReward struct {
	Base
	fn func(float64) float64
}

// NewTransformReward wraps inner with a reward transform.
func NewTransformReward(inner core.Env, fn func(float64) float64) *TransformReward {
	return &TransformReward{Base: NewBase(inner), fn: fn}
}

// Step advances the wrapped environment and transforms the reward.
func (t *TransformReward) Step(action any) (core.Step, error) {
	s, err := t.Base.Step(action)
	if err != nil {
		return s, err
	}
	s.Reward = t.fn(s.Reward)
	return s, nil
}
