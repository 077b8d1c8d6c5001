package vector

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/logging"
	"github.com/hupe1980/envmesh/seeding"
)

// requestKind tags a workerRequest.
type requestKind int

const (
	reqReset requestKind = iota
	reqStep
	reqClose
)

// workerRequest is the coordinator-to-worker message. Seq orders requests per
// worker so replies belonging to a timed-out batch can be recognized and
// discarded.
type workerRequest struct {
	seq    uint64
	kind   requestKind
	seed   *uint64
	action any
}

// workerReply is the worker-to-coordinator message. For step requests the
// payload is Result; for resets it is Obs/Info. Err carries the slot's
// failure, with Crashed set when the worker is exiting because of a panic.
type workerReply struct {
	seq     uint64
	result  SlotResult
	obs     any
	info    core.Info
	err     error
	crashed bool
}

// asyncWorker pairs a worker goroutine with its coordinator-side channel ends
// and bookkeeping. The req/rep channels are single-producer/single-consumer in
// each direction; only the coordinator touches seq and crashed.
type asyncWorker struct {
	slot    int
	req     chan workerRequest
	rep     chan workerReply
	seq     uint64
	crashed bool
}

// drainStale discards buffered replies left over from timed-out batches so
// the next await matches the next issued sequence number.
func (w *asyncWorker) drainStale() {
	for {
		select {
		case rep, ok := <-w.rep:
			if !ok || rep.crashed {
				w.crashed = true
				return
			}
		default:
			return
		}
	}
}

// await blocks until the reply for seq arrives or the deadline passes.
// Replies with older sequence numbers are stale and skipped.
func (w *asyncWorker) await(seq uint64, deadline time.Time) (workerReply, error) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	for {
		select {
		case rep, ok := <-w.rep:
			if !ok {
				w.crashed = true
				return workerReply{}, fmt.Errorf("%w: worker exited without reply", core.ErrWorkerCrashed)
			}
			if rep.seq < seq {
				continue
			}
			if rep.crashed {
				w.crashed = true
			}
			return rep, nil
		case <-timer.C:
			return workerReply{}, fmt.Errorf("%w: no reply before deadline", core.ErrWorkerTimeout)
		}
	}
}

// Async runs one dedicated worker goroutine per slot, each exclusively owning
// its Handle. The coordinator's Reset/Step fan one message out per worker and
// block until all N replies are in (or the per-batch timeout fires),
// preserving slot order in the returned batch regardless of reply arrival
// order. A worker that panics is contained: its slot reports ErrWorkerCrashed
// and stays failed for the remainder of the run, while the other slots keep
// running. Public methods are safe for concurrent use; each batch is a full
// request/collect round trip before the next is issued.
type Async struct {
	workers  []*asyncWorker
	n        int
	rootSeed uint64
	timeout  time.Duration
	logger   *logging.RunLogger
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewAsync constructs the runner. Instances are constructed and reset with
// their derived child seeds in the caller's context, then ownership of each
// handle moves to its worker goroutine.
func NewAsync(factories []core.Factory, optFns ...func(o *Options)) (*Async, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	handles, root, err := buildHandles(factories, opts)
	if err != nil {
		return nil, err
	}

	a := &Async{
		n:        len(handles),
		rootSeed: root,
		timeout:  opts.WorkerTimeout,
		logger:   logging.NewRunLogger(opts.Logger, "vector.async", uuid.NewString()),
	}

	buffer := opts.RequestBuffer
	if buffer < 1 {
		buffer = 1
	}

	a.workers = make([]*asyncWorker, a.n)
	for i, h := range handles {
		w := &asyncWorker{
			slot: i,
			req:  make(chan workerRequest, buffer),
			// One slot per possible in-flight request plus the crash
			// notification, so a worker never blocks depositing a reply.
			rep: make(chan workerReply, buffer+1),
		}
		a.workers[i] = w
		a.wg.Add(1)
		go a.runWorker(h, w)
	}

	a.logger.Debug("constructed", "slots", a.n, "root_seed", root, "timeout", a.timeout)
	return a, nil
}

// runWorker is the per-slot worker loop. It processes requests until a Close
// request arrives, the request channel is closed, or the slot's environment
// panics.
func (a *Async) runWorker(h *Handle, w *asyncWorker) {
	defer a.wg.Done()
	defer close(w.rep)

	logger := a.logger.WithSlot(w.slot)
	for r := range w.req {
		rep, done := a.handleRequest(h, r)
		w.rep <- rep
		if done {
			if rep.crashed {
				logger.Error("worker crashed", "error", rep.err)
			} else {
				logger.Debug("worker closed")
			}
			return
		}
	}

	// Request channel closed during shutdown: release the instance.
	if err := h.Close(); err != nil {
		logger.Warn("close failed", "error", err)
	}
}

// handleRequest executes one request against the worker-owned handle,
// converting a panicking environment into a crash reply.
func (a *Async) handleRequest(h *Handle, r workerRequest) (rep workerReply, done bool) {
	defer func() {
		if p := recover(); p != nil {
			rep = workerReply{
				seq:     r.seq,
				err:     fmt.Errorf("%w: %v", core.ErrWorkerCrashed, p),
				crashed: true,
			}
			done = true
			closeQuietly(h)
		}
	}()

	switch r.kind {
	case reqClose:
		// Idempotent: an already-closed handle acknowledges without side
		// effects.
		return workerReply{seq: r.seq, err: h.Close()}, true
	case reqReset:
		obs, info, err := h.Reset(r.seed)
		return workerReply{seq: r.seq, obs: obs, info: info, err: err}, false
	default:
		res := h.StepSlot(r.action)
		return workerReply{seq: r.seq, result: res, err: res.Err}, false
	}
}

// closeQuietly releases the handle of a crashed worker, swallowing any
// follow-up panic from the broken instance.
func closeQuietly(h *Handle) {
	defer func() { _ = recover() }()
	_ = h.Close()
}

// Len returns the configured slot count N.
func (a *Async) Len() int { return a.n }

// RootSeed returns the root seed the current seed streams derive from.
func (a *Async) RootSeed() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rootSeed
}

// send issues a request to worker w, returning the sequence number to await.
// A full request queue means the worker is still busy with earlier batches,
// which is reported as a timeout for this slot.
func (a *Async) send(w *asyncWorker, r workerRequest) (uint64, error) {
	if w.crashed {
		return 0, core.ErrWorkerCrashed
	}
	w.drainStale()
	if w.crashed {
		return 0, core.ErrWorkerCrashed
	}

	w.seq++
	r.seq = w.seq
	select {
	case w.req <- r:
		return w.seq, nil
	default:
		return 0, fmt.Errorf("%w: request queue full", core.ErrWorkerTimeout)
	}
}

// Reset starts a fresh episode on every slot. When rootSeed is non-nil a new
// seed stream is derived from it and each slot is reseeded with its entry;
// otherwise the slots keep their current generator streams. Per-slot failures
// are joined into the returned error; successful slots' output is still
// populated.
func (a *Async) Reset(rootSeed *uint64) ([]any, []core.Info, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, nil, core.ErrClosed
	}

	var seeds []uint64
	if rootSeed != nil {
		var err error
		seeds, err = seeding.Derive(*rootSeed, a.n)
		if err != nil {
			return nil, nil, err
		}
		a.rootSeed = *rootSeed
	}
	return a.resetSlots(seeds)
}

// ResetSeeds starts a fresh episode on every slot with explicit per-slot
// seeds. len(seeds) must equal N.
func (a *Async) ResetSeeds(seeds []uint64) ([]any, []core.Info, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, nil, core.ErrClosed
	}
	if len(seeds) != a.n {
		return nil, nil, fmt.Errorf("%w: got %d seeds for %d slots", core.ErrShapeMismatch, len(seeds), a.n)
	}
	return a.resetSlots(seeds)
}

func (a *Async) resetSlots(seeds []uint64) ([]any, []core.Info, error) {
	issued := make([]uint64, a.n)
	slotErrs := make([]error, a.n)

	for i, w := range a.workers {
		r := workerRequest{kind: reqReset}
		if seeds != nil {
			r.seed = &seeds[i]
		}
		seq, err := a.send(w, r)
		if err != nil {
			slotErrs[i] = err
			continue
		}
		issued[i] = seq
	}

	observations := make([]any, a.n)
	infos := make([]core.Info, a.n)
	deadline := time.Now().Add(a.timeout)
	var errs []error

	for i, w := range a.workers {
		if slotErrs[i] == nil {
			rep, err := w.await(issued[i], deadline)
			if err == nil {
				err = rep.err
			}
			if err == nil {
				observations[i] = rep.obs
				infos[i] = rep.info
				continue
			}
			slotErrs[i] = err
		}
		a.logger.WithSlot(i).Warn("reset failed", "error", slotErrs[i])
		errs = append(errs, core.NewSlotError(i, slotErrs[i]))
	}
	return observations, infos, errors.Join(errs...)
}

// Step advances every slot by one step. It requires len(actions) == N and
// rejects the batch with ErrShapeMismatch before any message is sent. The
// call fans one Step message out per worker, then blocks collecting exactly N
// outcomes in slot order. A worker that misses the reply deadline yields
// ErrWorkerTimeout for its slot only; the other slots' results are returned in
// the same batch.
func (a *Async) Step(actions []any) (BatchStep, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return BatchStep{}, core.ErrClosed
	}
	if len(actions) != a.n {
		return BatchStep{}, fmt.Errorf("%w: got %d actions for %d slots", core.ErrShapeMismatch, len(actions), a.n)
	}

	issued := make([]uint64, a.n)
	slotErrs := make([]error, a.n)
	for i, w := range a.workers {
		seq, err := a.send(w, workerRequest{kind: reqStep, action: actions[i]})
		if err != nil {
			slotErrs[i] = err
			continue
		}
		issued[i] = seq
	}

	batch := newBatchStep(a.n)
	deadline := time.Now().Add(a.timeout)

	for i, w := range a.workers {
		if slotErrs[i] == nil {
			rep, err := w.await(issued[i], deadline)
			if err == nil && rep.err == nil {
				batch.setSlot(i, rep.result)
				continue
			}
			if err == nil {
				err = rep.err
			}
			slotErrs[i] = err
		}
		a.logger.WithSlot(i).Warn("step failed", "error", slotErrs[i])
		batch.Errors[i] = core.NewSlotError(i, slotErrs[i])
	}
	return batch, nil
}

// Close shuts every worker down and releases their instances. A Close message
// is sent to each live worker and the request channels are closed so a worker
// awaiting its next request drains the shutdown immediately. Idempotent;
// returns ErrWorkerTimeout (wrapped) if workers fail to exit within the
// configured deadline.
func (a *Async) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	for _, w := range a.workers {
		if !w.crashed {
			w.seq++
			select {
			case w.req <- workerRequest{seq: w.seq, kind: reqClose}:
			default:
			}
		}
		close(w.req)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Debug("closed")
		return nil
	case <-time.After(a.timeout):
		a.logger.Warn("workers did not exit before deadline")
		return fmt.Errorf("%w: shutdown incomplete", core.ErrWorkerTimeout)
	}
}
