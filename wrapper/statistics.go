package wrapper

import "github.com/hupe1980/envmesh/core"

// Info keys injected by RecordEpisodeStatistics on the final step of an
// episode.
const (
	EpisodeReturnKey = "episode_return"
	EpisodeLengthKey = "episode_length"
)

// RecordEpisodeStatistics accumulates per-episode return and length. On the
// step where the episode ends (terminated or truncated) it injects both values
// into the step's Info, then clears its accumulators for the next episode.
type RecordEpisodeStatistics struct {
	Base
	episodeReturn float64
	episodeLength int64
}

// NewRecordEpisodeStatistics wraps inner with episode statistics tracking.
func NewRecordEpisodeStatistics(inner core.Env) *RecordEpisodeStatistics {
	return &RecordEpisodeStatistics{Base: NewBase(inner)}
}

// Reset clears the accumulators and resets the wrapped environment.
func (r *RecordEpisodeStatistics) Reset(seed *uint64) (any, core.Info, error) {
	r.episodeReturn = 0
	r.episodeLength = 0
	return r.Base.Reset(seed)
}

// Step advances the wrapped environment and records statistics.
func (r *RecordEpisodeStatistics) Step(action any) (core.Step, error) {
	s, err := r.Base.Step(action)
	if err != nil {
		return s, err
	}
	r.episodeReturn += s.Reward
	r.episodeLength++
	if s.Done() {
		s.Info.Set(EpisodeReturnKey, r.episodeReturn)
		s.Info.Set(EpisodeLengthKey, r.episodeLength)
		r.episodeReturn = 0
		r.episodeLength = 0
	}
	return s, nil
}
