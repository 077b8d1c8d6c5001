package testutil

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/seeding"
)

// CounterEnv is a deterministic dummy environment for runner tests. Its
// observation is []float64{offset, count} where offset is drawn once per
// episode from the seeded generator (so differently seeded instances produce
// distinct observations) and count is the episode step counter. Example:
//
//	env := testutil.NewCounterEnv().TerminateAt(5).RewardPerStep(2)
//
// Chain only the behaviors you need; by default episodes never end and each
// step yields reward 1.
type CounterEnv struct {
	rng    *rand.Rand
	offset float64
	count  int

	terminateAt   int
	rewardPerStep float64
	stepDelay     time.Duration
	panicAtStep   int
	total         int

	resets  int
	started bool
	closed  bool
}

// NewCounterEnv creates an unstarted counter environment.
func NewCounterEnv() *CounterEnv {
	return &CounterEnv{rng: seeding.NewRNG(0), rewardPerStep: 1}
}

// TerminateAt makes episodes terminate once the step counter reaches n (chainable).
func (c *CounterEnv) TerminateAt(n int) *CounterEnv { c.terminateAt = n; return c }

// RewardPerStep overrides the per-step reward (chainable).
func (c *CounterEnv) RewardPerStep(r float64) *CounterEnv { c.rewardPerStep = r; return c }

// StepDelay makes every step block for d, for timeout tests (chainable).
func (c *CounterEnv) StepDelay(d time.Duration) *CounterEnv { c.stepDelay = d; return c }

// PanicAtStep makes the nth step of the run panic, for crash tests (chainable).
func (c *CounterEnv) PanicAtStep(n int) *CounterEnv { c.panicAtStep = n; return c }

// Resets reports how many times Reset has been called.
func (c *CounterEnv) Resets() int { return c.resets }

// Count reports the current episode step counter.
func (c *CounterEnv) Count() int { return c.count }

// Offset reports the episode's seed-derived observation offset.
func (c *CounterEnv) Offset() float64 { return c.offset }

func (c *CounterEnv) obs() []float64 {
	return []float64{c.offset, float64(c.count)}
}

// Reset implements core.Env.
func (c *CounterEnv) Reset(seed *uint64) (any, core.Info, error) {
	if c.closed {
		return nil, core.Info{}, core.ErrClosed
	}
	if seed != nil {
		c.rng = seeding.NewRNG(*seed)
	}
	c.offset = c.rng.Float64()
	c.count = 0
	c.resets++
	c.started = true
	info := core.NewInfo()
	info.Set("reset_count", int64(c.resets))
	return c.obs(), info, nil
}

// Step implements core.Env. The action is ignored unless it is the string
// "boom", which panics immediately regardless of PanicAtStep.
func (c *CounterEnv) Step(action any) (core.Step, error) {
	if c.closed {
		return core.Step{}, core.ErrClosed
	}
	if !c.started {
		return core.Step{}, fmt.Errorf("counterenv: %w", core.ErrNotReady)
	}
	if action == "boom" {
		panic("counterenv: boom")
	}
	if c.stepDelay > 0 {
		time.Sleep(c.stepDelay)
	}
	c.count++
	c.total++
	if c.panicAtStep > 0 && c.total == c.panicAtStep {
		panic(fmt.Sprintf("counterenv: scripted panic at step %d", c.total))
	}
	terminated := c.terminateAt > 0 && c.count >= c.terminateAt
	return core.NewStep(c.obs(), c.rewardPerStep, terminated, false, core.NewInfo()), nil
}

// Render implements core.Env.
func (c *CounterEnv) Render() *core.RenderFrame {
	return core.TextFrame(fmt.Sprintf("count=%d", c.count))
}

// Close implements core.Env. Idempotent.
func (c *CounterEnv) Close() error {
	c.closed = true
	return nil
}
