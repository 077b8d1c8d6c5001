package vector

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/logging"
	"github.com/hupe1980/envmesh/seeding"
	"github.com/hupe1980/envmesh/wrapper"
)

// buildHandles constructs and seeds one handle per factory: the root seed is
// resolved, expanded into per-slot child seeds, and every instance is
// constructed via its factory and reset with its own child seed.
func buildHandles(factories []core.Factory, opts Options) ([]*Handle, uint64, error) {
	n := len(factories)
	if n < 1 {
		return nil, 0, fmt.Errorf("%w: need at least one factory, got %d", core.ErrShapeMismatch, n)
	}

	root, err := seeding.RootSeed(opts.RootSeed)
	if err != nil {
		return nil, 0, err
	}
	seeds, err := seeding.Derive(root, n)
	if err != nil {
		return nil, 0, err
	}

	handles := make([]*Handle, n)
	for i, factory := range factories {
		env, err := factory()
		if err != nil {
			return nil, 0, fmt.Errorf("slot %d: factory failed: %w", i, err)
		}
		if opts.Spec != nil && opts.Spec.MaxEpisodeSteps > 0 {
			env = wrapper.NewTimeLimit(env, opts.Spec.MaxEpisodeSteps)
		}
		h := newHandle(i, env, seeds[i], opts.ActionSpace, opts.AutoReset)
		if _, _, err := h.Reset(&seeds[i]); err != nil {
			return nil, 0, fmt.Errorf("slot %d: initial reset failed: %w", i, err)
		}
		handles[i] = h
	}
	return handles, root, nil
}

// Sync runs N environment instances in the caller's execution context,
// batching inputs and outputs. Its results are identical to stepping N
// independent single-slot environments sequentially, even when per-slot
// compute is fanned over a bounded pool. Public methods are safe for
// concurrent use.
type Sync struct {
	handles     []*Handle
	n           int
	rootSeed    uint64
	parallelism int
	logger      *logging.RunLogger

	mu     sync.Mutex
	closed bool
}

// NewSync constructs the runner, invoking each factory exactly once and
// resetting every instance with its derived child seed.
func NewSync(factories []core.Factory, optFns ...func(o *Options)) (*Sync, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	handles, root, err := buildHandles(factories, opts)
	if err != nil {
		return nil, err
	}

	s := &Sync{
		handles:     handles,
		n:           len(handles),
		rootSeed:    root,
		parallelism: opts.Parallelism,
		logger:      logging.NewRunLogger(opts.Logger, "vector.sync", uuid.NewString()),
	}
	s.logger.Debug("constructed", "slots", s.n, "root_seed", root)
	return s, nil
}

// Len returns the configured slot count N.
func (s *Sync) Len() int { return s.n }

// RootSeed returns the root seed the current seed streams derive from.
func (s *Sync) RootSeed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rootSeed
}

// Handles exposes the slot arena for advanced inspection. Callers must not
// step or reset handles directly while the runner is in use.
func (s *Sync) Handles() []*Handle { return s.handles }

// Reset starts a fresh episode on every slot. When rootSeed is non-nil a new
// seed stream is derived from it and each slot is reseeded with its entry;
// otherwise the slots keep their current generator streams.
func (s *Sync) Reset(rootSeed *uint64) ([]any, []core.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, core.ErrClosed
	}

	var seeds []uint64
	if rootSeed != nil {
		var err error
		seeds, err = seeding.Derive(*rootSeed, s.n)
		if err != nil {
			return nil, nil, err
		}
		s.rootSeed = *rootSeed
	}
	return s.resetSlots(seeds)
}

// ResetSeeds starts a fresh episode on every slot with explicit per-slot
// seeds. len(seeds) must equal N.
func (s *Sync) ResetSeeds(seeds []uint64) ([]any, []core.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, core.ErrClosed
	}
	if len(seeds) != s.n {
		return nil, nil, fmt.Errorf("%w: got %d seeds for %d slots", core.ErrShapeMismatch, len(seeds), s.n)
	}
	return s.resetSlots(seeds)
}

func (s *Sync) resetSlots(seeds []uint64) ([]any, []core.Info, error) {
	observations := make([]any, s.n)
	infos := make([]core.Info, s.n)
	var errs []error
	for i, h := range s.handles {
		var seed *uint64
		if seeds != nil {
			seed = &seeds[i]
		}
		obs, info, err := h.Reset(seed)
		if err != nil {
			s.logger.WithSlot(i).Warn("reset failed", "error", err)
			errs = append(errs, core.NewSlotError(i, err))
			continue
		}
		observations[i] = obs
		infos[i] = info
	}
	return observations, infos, errors.Join(errs...)
}

// Step advances every slot by one step. It requires len(actions) == N and
// rejects the batch with ErrShapeMismatch before any slot work begins. A
// single slot's recoverable error is attributed to that slot in the returned
// BatchStep without corrupting the other slots' results.
func (s *Sync) Step(actions []any) (BatchStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return BatchStep{}, core.ErrClosed
	}
	if len(actions) != s.n {
		return BatchStep{}, fmt.Errorf("%w: got %d actions for %d slots", core.ErrShapeMismatch, len(actions), s.n)
	}

	results := make([]SlotResult, s.n)
	if s.parallelism > 1 {
		s.stepPooled(actions, results)
	} else {
		for i, h := range s.handles {
			results[i] = h.StepSlot(actions[i])
		}
	}

	batch := newBatchStep(s.n)
	for i, r := range results {
		if r.Err != nil {
			s.logger.WithSlot(i).Warn("step failed", "error", r.Err)
		}
		batch.setSlot(i, r)
	}
	return batch, nil
}

// stepPooled fans per-slot compute over a bounded pool. Each goroutine writes
// only its own slot's result, so there is no cross-slot shared mutable state
// and execution order cannot change semantics.
func (s *Sync) stepPooled(actions []any, results []SlotResult) {
	workers := s.parallelism
	if workers > s.n {
		workers = s.n
	}

	var wg sync.WaitGroup
	slots := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range slots {
				results[i] = s.handles[i].StepSlot(actions[i])
			}
		}()
	}
	for i := 0; i < s.n; i++ {
		slots <- i
	}
	close(slots)
	wg.Wait()
}

// Render forwards the render query to every slot, one optional frame each.
// No buffering or encoding is performed.
func (s *Sync) Render() []*core.RenderFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := make([]*core.RenderFrame, s.n)
	for i, h := range s.handles {
		frames[i] = h.Render()
	}
	return frames
}

// Close releases every slot's instance. Idempotent; subsequent Reset and Step
// calls fail with ErrClosed.
func (s *Sync) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i, h := range s.handles {
		if err := h.Close(); err != nil {
			errs = append(errs, core.NewSlotError(i, err))
		}
	}
	s.logger.Debug("closed")
	return errors.Join(errs...)
}
