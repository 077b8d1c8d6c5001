package envs

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/seeding"
	"github.com/hupe1980/envmesh/space"
)

// CartPole is the classic pole-balancing task.
//
// Observation: []float64{x, xDot, theta, thetaDot}.
// Actions: 0 pushes the cart left, 1 pushes it right.
// Reward: 1.0 per step until termination.
type CartPole struct {
	x, xDot, theta, thetaDot float64

	rng     *rand.Rand
	started bool
	closed  bool

	// Physics constants, Gymnasium values.
	gravity        float64 // 9.8
	masscart       float64 // 1.0
	masspole       float64 // 0.1
	totalMass      float64
	length         float64 // half the pole's length
	polemassLength float64
	forceMag       float64 // 10.0
	tau            float64 // seconds between state updates

	thetaThreshold float64 // 12 degrees in radians
	xThreshold     float64 // 2.4
}

// NewCartPole constructs an unstarted instance with its generator seeded from
// seed.
func NewCartPole(seed uint64) *CartPole {
	masscart, masspole := 1.0, 0.1
	length := 0.5
	return &CartPole{
		rng:            seeding.NewRNG(seed),
		gravity:        9.8,
		masscart:       masscart,
		masspole:       masspole,
		totalMass:      masscart + masspole,
		length:         length,
		polemassLength: masspole * length,
		forceMag:       10.0,
		tau:            0.02,
		thetaThreshold: 12.0 * math.Pi / 180.0,
		xThreshold:     2.4,
	}
}

// CartPoleSpec returns the canonical spec for this environment.
func CartPoleSpec() core.EnvSpec {
	threshold := 475.0
	spec := core.NewEnvSpec("CartPole-v1")
	spec.MaxEpisodeSteps = 500
	spec.RewardThreshold = &threshold
	spec.Version = "1"
	return spec
}

// ActionSpace returns Discrete(2).
func (c *CartPole) ActionSpace() space.Space { return space.NewDiscrete(2) }

// ObservationSpace returns the box the observation vector lives in.
func (c *CartPole) ObservationSpace() space.Space {
	high := []float64{c.xThreshold * 2, math.Inf(1), c.thetaThreshold * 2, math.Inf(1)}
	low := []float64{-high[0], math.Inf(-1), -high[2], math.Inf(-1)}
	return space.NewBox(low, high)
}

func (c *CartPole) obs() []float64 {
	return []float64{c.x, c.xDot, c.theta, c.thetaDot}
}

func (c *CartPole) terminated() bool {
	return c.x < -c.xThreshold || c.x > c.xThreshold ||
		c.theta < -c.thetaThreshold || c.theta > c.thetaThreshold
}

// Reset starts a fresh episode with all state components drawn uniformly from
// [-0.05, 0.05].
func (c *CartPole) Reset(seed *uint64) (any, core.Info, error) {
	if c.closed {
		return nil, core.Info{}, core.ErrClosed
	}
	if seed != nil {
		c.rng = seeding.NewRNG(*seed)
	}
	uniform := func() float64 { return c.rng.Float64()*0.1 - 0.05 }
	c.x = uniform()
	c.xDot = uniform()
	c.theta = uniform()
	c.thetaDot = uniform()
	c.started = true
	return c.obs(), core.NewInfo(), nil
}

// Step applies the push force and integrates the dynamics one tau forward.
func (c *CartPole) Step(action any) (core.Step, error) {
	if c.closed {
		return core.Step{}, core.ErrClosed
	}
	if !c.started {
		return core.Step{}, fmt.Errorf("cartpole: %w", core.ErrNotReady)
	}
	a, ok := action.(int)
	if !ok || (a != 0 && a != 1) {
		return core.Step{}, fmt.Errorf("%w: cartpole expects 0 or 1, got %v", core.ErrInvalidAction, action)
	}

	force := -c.forceMag
	if a == 1 {
		force = c.forceMag
	}
	cosTheta := math.Cos(c.theta)
	sinTheta := math.Sin(c.theta)

	// Same equations of motion as Gymnasium, semi-implicit Euler skipped in
	// favor of the classic explicit update.
	temp := (force + c.polemassLength*c.thetaDot*c.thetaDot*sinTheta) / c.totalMass
	thetaAcc := (c.gravity*sinTheta - cosTheta*temp) /
		(c.length * (4.0/3.0 - c.masspole*cosTheta*cosTheta/c.totalMass))
	xAcc := temp - c.polemassLength*thetaAcc*cosTheta/c.totalMass

	c.x += c.tau * c.xDot
	c.xDot += c.tau * xAcc
	c.theta += c.tau * c.thetaDot
	c.thetaDot += c.tau * thetaAcc

	return core.NewStep(c.obs(), 1.0, c.terminated(), false, core.NewInfo()), nil
}

// Render returns a textual state frame.
func (c *CartPole) Render() *core.RenderFrame {
	if c.closed {
		return nil
	}
	return core.TextFrame(fmt.Sprintf("x=%.3f x_dot=%.3f theta=%.3f theta_dot=%.3f", c.x, c.xDot, c.theta, c.thetaDot))
}

// Close marks the instance closed. Idempotent.
func (c *CartPole) Close() error {
	c.closed = true
	return nil
}
