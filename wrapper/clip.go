package wrapper

import "github.com/hupe1980/envmesh/core"

// ClipAction clamps scalar float64 actions into [Min, Max]. Useful for
// continuous controls. Non-float64 actions pass through unchanged; use
// TransformAction for custom clipping of structured actions.
type ClipAction struct {
	Base
	min, max float64
}

// NewClipAction wraps inner with an action clamp.
func NewClipAction(inner core.Env, min, max float64) *ClipAction {
	return &ClipAction{Base: NewBase(inner), min: min, max: max}
}

// Step clamps the action then advances the wrapped environment.
func (c *ClipAction) Step(action any) (core.Step, error) {
	if a, ok := action.(float64); ok {
		if a < c.min {
			a = c.min
		}
		if a > c.max {
			a = c.max
		}
		action = a
	}
	return c.Base.Step(action)
}

// ClipReward clamps rewards into [Min, Max].
type ClipReward struct {
	Base
	min, max float64
}

// NewClipReward wraps inner with a reward clamp.
func NewClipReward(inner core.Env, min, max float64) *ClipReward {
	return &ClipReward{Base: NewBase(inner), min: min, max: max}
}

// Step advances the wrapped environment and clamps the reward.
func (c *ClipReward) Step(action any) (core.Step, error) {
	s, err := c.Base.Step(action)
	if err != nil {
		return s, err
	}
	if s.Reward < c.min {
		s.Reward = c.min
	}
	if s.Reward > c.max {
		s.Reward = c.max
	}
	return s, nil
}
