package vector

import (
	"time"

	"github.com/hupe1980/envmesh/core"
	"github.com/hupe1980/envmesh/logging"
	"github.com/hupe1980/envmesh/space"
)

// DefaultWorkerTimeout bounds how long the async coordinator waits for a
// worker reply before attributing ErrWorkerTimeout to that slot.
const DefaultWorkerTimeout = 30 * time.Second

// Options holds dependency + configuration overrides passed to NewSync / NewAsync.
type Options struct {
	// RootSeed seeds the per-slot seed stream. When nil a root is drawn from
	// the process entropy source at construction.
	RootSeed *uint64

	// AutoReset controls whether a slot whose episode ended is reset before
	// its next step. Enabled by default.
	AutoReset bool

	// ActionSpace, when set, validates every incoming action before it
	// reaches an instance; failures surface as per-slot ErrInvalidAction.
	ActionSpace space.Space

	// Spec supplies static environment metadata. When MaxEpisodeSteps is set
	// each instance is wrapped in a TimeLimit at construction.
	Spec *core.EnvSpec

	// Parallelism bounds the worker pool the sync runner fans per-slot
	// compute over. Values <= 1 mean sequential slot-order execution;
	// semantics are identical either way.
	Parallelism int

	// WorkerTimeout is the async reply deadline per batch.
	// Defaults to DefaultWorkerTimeout.
	WorkerTimeout time.Duration

	// RequestBuffer sets the capacity of each async worker's request channel.
	RequestBuffer int

	// Logger receives runner diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

func defaultOptions() Options {
	return Options{
		AutoReset:     true,
		Parallelism:   1,
		WorkerTimeout: DefaultWorkerTimeout,
		RequestBuffer: 4,
		Logger:        logging.NoOpLogger{},
	}
}

// WithRootSeed fixes the root seed for reproducible runs.
func WithRootSeed(seed uint64) func(o *Options) {
	return func(o *Options) { o.RootSeed = &seed }
}

// WithoutAutoReset disables the per-slot auto-reset policy.
func WithoutAutoReset() func(o *Options) {
	return func(o *Options) { o.AutoReset = false }
}

// WithActionSpace enables action validation against s.
func WithActionSpace(s space.Space) func(o *Options) {
	return func(o *Options) { o.ActionSpace = s }
}

// WithSpec attaches static environment metadata.
func WithSpec(spec core.EnvSpec) func(o *Options) {
	return func(o *Options) { o.Spec = &spec }
}

// WithParallelism sets the sync runner's pool size.
func WithParallelism(n int) func(o *Options) {
	return func(o *Options) { o.Parallelism = n }
}

// WithWorkerTimeout overrides the async reply deadline.
func WithWorkerTimeout(d time.Duration) func(o *Options) {
	return func(o *Options) { o.WorkerTimeout = d }
}

// WithLogger injects a logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}
