package envs

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/seeding"
	"github.com/hupe1980/envmesh/space"
)

// MountainCar is the classic underpowered-car task.
//
// Observation: []float64{position, velocity}.
// Actions: 0 pushes left, 1 coasts, 2 pushes right.
// Reward: -1.0 per step until the goal is reached.
type MountainCar struct {
	position, velocity float64

	rng     *rand.Rand
	started bool
	closed  bool

	minPosition  float64 // -1.2
	maxPosition  float64 // 0.6
	maxSpeed     float64 // 0.07
	goalPosition float64 // 0.5
	force        float64 // 0.001
	gravity      float64 // 0.0025
}

// NewMountainCar constructs an unstarted instance with its generator seeded
// from seed.
func NewMountainCar(seed uint64) *MountainCar {
	return &MountainCar{
		rng:          seeding.NewRNG(seed),
		minPosition:  -1.2,
		maxPosition:  0.6,
		maxSpeed:     0.07,
		goalPosition: 0.5,
		force:        0.001,
		gravity:      0.0025,
	}
}

// MountainCarSpec returns the canonical spec for this environment.
func MountainCarSpec() core.EnvSpec {
	threshold := -110.0
	spec := core.NewEnvSpec("MountainCar-v0")
	spec.MaxEpisodeSteps = 200
	spec.RewardThreshold = &threshold
	spec.Version = "0"
	return spec
}

// ActionSpace returns Discrete(3).
func (m *MountainCar) ActionSpace() space.Space { return space.NewDiscrete(3) }

// ObservationSpace returns the box the observation vector lives in.
func (m *MountainCar) ObservationSpace() space.Space {
	return space.NewBox([]float64{m.minPosition, -m.maxSpeed}, []float64{m.maxPosition, m.maxSpeed})
}

func (m *MountainCar) obs() []float64 {
	return []float64{m.position, m.velocity}
}

// Reset starts a fresh episode with position uniform in [-0.6, -0.4] and zero
// velocity.
func (m *MountainCar) Reset(seed *uint64) (any, core.Info, error) {
	if m.closed {
		return nil, core.Info{}, core.ErrClosed
	}
	if seed != nil {
		m.rng = seeding.NewRNG(*seed)
	}
	m.position = -0.6 + m.rng.Float64()*0.2
	m.velocity = 0
	m.started = true
	return m.obs(), core.NewInfo(), nil
}

// Step applies the action force against hill gravity.
func (m *MountainCar) Step(action any) (core.Step, error) {
	if m.closed {
		return core.Step{}, core.ErrClosed
	}
	if !m.started {
		return core.Step{}, fmt.Errorf("mountaincar: %w", core.ErrNotReady)
	}
	a, ok := action.(int)
	if !ok || a < 0 || a > 2 {
		return core.Step{}, fmt.Errorf("%w: mountaincar expects 0, 1 or 2, got %v", core.ErrInvalidAction, action)
	}

	m.velocity += float64(a-1)*m.force - m.gravity*math.Cos(3*m.position)
	m.velocity = math.Max(-m.maxSpeed, math.Min(m.maxSpeed, m.velocity))
	m.position += m.velocity
	m.position = math.Max(m.minPosition, math.Min(m.maxPosition, m.position))
	if m.position <= m.minPosition && m.velocity < 0 {
		m.velocity = 0
	}

	terminated := m.position >= m.goalPosition
	return core.NewStep(m.obs(), -1.0, terminated, false, core.NewInfo()), nil
}

// Render returns a textual state frame.
func (m *MountainCar) Render() *core.RenderFrame {
	if m.closed {
		return nil
	}
	return core.TextFrame(fmt.Sprintf("position=%.3f velocity=%.4f", m.position, m.velocity))
}

// Close marks the instance closed. Idempotent.
func (m *MountainCar) Close() error {
	m.closed = true
	return nil
}
