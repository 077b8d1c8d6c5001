package vector

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/seeding"
	"github.com/hupe1980/envmesh/space"
)

// Handle owns one environment instance bound to a slot: the instance itself,
// one auxiliary PRNG seeded from the slot's seed-stream entry, and episode
// bookkeeping. Exactly one owner (the runner, or the slot's worker goroutine
// in the async case) mutates a Handle; handles are never shared across slots.
type Handle struct {
	id   string
	slot int
	env  core.Env

	seed uint64
	rng  *rand.Rand

	actionSpace space.Space
	autoReset   bool

	elapsedSteps  int
	episodeReturn float64
	donePending   bool
	started       bool
	closed        bool
}

// newHandle binds env to a slot with its derived seed. The handle is
// unstarted until the first Reset.
func newHandle(slot int, env core.Env, seed uint64, actionSpace space.Space, autoReset bool) *Handle {
	return &Handle{
		id:          uuid.NewString(),
		slot:        slot,
		env:         env,
		seed:        seed,
		rng:         seeding.NewRNG(seed),
		actionSpace: actionSpace,
		autoReset:   autoReset,
	}
}

// ID returns the handle's unique identity, used for log correlation.
func (h *Handle) ID() string { return h.id }

// Slot returns the slot index this handle is bound to.
func (h *Handle) Slot() int { return h.slot }

// Seed returns the slot's current seed-stream entry.
func (h *Handle) Seed() uint64 { return h.seed }

// RNG returns the handle-owned auxiliary generator (e.g. for action sampling).
func (h *Handle) RNG() *rand.Rand { return h.rng }

// ElapsedSteps returns the step count of the current episode.
func (h *Handle) ElapsedSteps() int { return h.elapsedSteps }

// EpisodeReturn returns the cumulative reward of the current episode.
func (h *Handle) EpisodeReturn() float64 { return h.episodeReturn }

// Reset starts a fresh episode. When seed is non-nil it replaces both the
// instance's generator and the handle's auxiliary PRNG. Episode counters reset
// to zero exactly here and nowhere else.
func (h *Handle) Reset(seed *uint64) (any, core.Info, error) {
	if h.closed {
		return nil, core.Info{}, fmt.Errorf("slot %d: %w", h.slot, core.ErrClosed)
	}
	if seed != nil {
		h.seed = *seed
		h.rng = seeding.NewRNG(*seed)
	}
	obs, info, err := h.env.Reset(seed)
	if err != nil {
		return nil, info, err
	}
	h.elapsedSteps = 0
	h.episodeReturn = 0
	h.donePending = false
	h.started = true
	return obs, info, nil
}

// StepSlot advances the slot by one step, applying action validation and the
// auto-reset policy. A slot whose previous step ended the episode is reset
// before this step is computed, so the returned Step always belongs to a live
// episode; the auto-reset of the episode that ends on this step happens
// immediately and is reported in the result without altering the terminal
// Step.
func (h *Handle) StepSlot(action any) SlotResult {
	if h.closed {
		return SlotResult{Err: core.ErrClosed}
	}
	if !h.started {
		return SlotResult{Err: fmt.Errorf("step before reset: %w", core.ErrNotReady)}
	}
	if h.donePending {
		// Auto-reset disabled and the episode is over.
		return SlotResult{Err: fmt.Errorf("episode finished, reset required: %w", core.ErrNotReady)}
	}
	if h.actionSpace != nil && !h.actionSpace.Contains(action) {
		return SlotResult{Err: fmt.Errorf("%w: %v", core.ErrInvalidAction, action)}
	}

	s, err := h.env.Step(action)
	if err != nil {
		return SlotResult{Err: err}
	}
	h.elapsedSteps++
	h.episodeReturn += s.Reward

	res := SlotResult{Step: s}
	if s.Done() {
		if !h.autoReset {
			h.donePending = true
			return res
		}
		obs, info, rerr := h.Reset(nil)
		if rerr != nil {
			return SlotResult{Err: fmt.Errorf("auto-reset failed: %w", rerr)}
		}
		res.AutoReset = true
		res.ResetObservation = obs
		res.ResetInfo = info
	}
	return res
}

// Render forwards the render query to the instance without buffering.
func (h *Handle) Render() *core.RenderFrame {
	if h.closed {
		return nil
	}
	return h.env.Render()
}

// Close releases the instance. Idempotent; after the first call Reset and
// StepSlot fail with ErrClosed.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.env.Close()
}
