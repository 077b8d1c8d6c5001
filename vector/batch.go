package vector

import "github.com/hupe1980/envmesh/core"

// SlotResult is the outcome of advancing a single slot by one step. Exactly
// one of Step/Err is meaningful: when Err is non-nil the slot failed and the
// remaining fields are zero values.
type SlotResult struct {
	Step core.Step

	// AutoReset reports that the slot's episode ended on this step and the
	// instance was reset immediately afterwards. The Step itself still holds
	// the terminal observation; the fresh episode's observation is surfaced
	// below.
	AutoReset        bool
	ResetObservation any
	ResetInfo        core.Info

	Err error
}

// BatchStep is the batched result of stepping all N slots once. All slices
// have length N and are aligned by slot index.
type BatchStep struct {
	Observations []any
	Rewards      []float64
	Terminated   []bool
	Truncated    []bool
	Infos        []core.Info

	// AutoReset marks the slots whose episode ended on this step and which
	// were reset before the next call. ResetObservations and ResetInfos hold
	// the fresh episodes' reset output for exactly those slots (nil / empty
	// elsewhere); the terminal Step fields above are never overwritten.
	AutoReset         []bool
	ResetObservations []any
	ResetInfos        []core.Info

	// Errors holds a per-slot *core.SlotError, or nil for successful slots.
	// Per-slot failures never abort unrelated slots.
	Errors []error
}

func newBatchStep(n int) BatchStep {
	return BatchStep{
		Observations:      make([]any, n),
		Rewards:           make([]float64, n),
		Terminated:        make([]bool, n),
		Truncated:         make([]bool, n),
		Infos:             make([]core.Info, n),
		AutoReset:         make([]bool, n),
		ResetObservations: make([]any, n),
		ResetInfos:        make([]core.Info, n),
		Errors:            make([]error, n),
	}
}

// setSlot records a slot result at index i.
func (b *BatchStep) setSlot(i int, r SlotResult) {
	if r.Err != nil {
		b.Errors[i] = core.NewSlotError(i, r.Err)
		return
	}
	b.Observations[i] = r.Step.Observation
	b.Rewards[i] = r.Step.Reward
	b.Terminated[i] = r.Step.Terminated
	b.Truncated[i] = r.Step.Truncated
	b.Infos[i] = r.Step.Info
	b.AutoReset[i] = r.AutoReset
	b.ResetObservations[i] = r.ResetObservation
	b.ResetInfos[i] = r.ResetInfo
}

// Err returns the first per-slot error, or nil when every slot succeeded. The
// caller decides whether to abort the whole batch or substitute fallbacks for
// failed slots.
func (b BatchStep) Err() error {
	for _, err := range b.Errors {
		if err != nil {
			return err
		}
	}
	return nil
}
