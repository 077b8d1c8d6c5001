package wrapper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/envmesh/core"
)

// stubEnv is a minimal deterministic environment for wrapper tests. Each step
// increments a counter; the observation is the counter, the reward is the
// counter value, and the episode terminates once the counter reaches
// terminateAt (never, when zero). It records the last action it received.
type stubEnv struct {
	count       int
	terminateAt int
	lastAction  any
	lastSeed    *uint64
	resets      int
	closed      bool
}

func (s *stubEnv) Reset(seed *uint64) (any, core.Info, error) {
	if s.closed {
		return nil, core.Info{}, core.ErrClosed
	}
	s.count = 0
	s.lastSeed = seed
	s.resets++
	return s.count, core.NewInfo(), nil
}

func (s *stubEnv) Step(action any) (core.Step, error) {
	if s.closed {
		return core.Step{}, core.ErrClosed
	}
	s.count++
	s.lastAction = action
	terminated := s.terminateAt > 0 && s.count >= s.terminateAt
	return core.NewStep(s.count, float64(s.count), terminated, false, core.NewInfo()), nil
}

func (s *stubEnv) Render() *core.RenderFrame {
	return core.TextFrame(fmt.Sprintf("count=%d", s.count))
}

func (s *stubEnv) Close() error {
	s.closed = true
	return nil
}

func TestBaseDelegates(t *testing.T) {
	env := &stubEnv{}
	b := NewBase(env)

	_, _, err := b.Reset(nil)
	require.NoError(t, err)

	s, err := b.Step(1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Observation)

	assert.Equal(t, "count=1", b.Render().Text)
	assert.Same(t, env, b.Inner())

	require.NoError(t, b.Close())
	_, err = b.Step(1)
	assert.ErrorIs(t, err, core.ErrClosed)
}

func TestTimeLimitTruncatesExactlyAtLimit(t *testing.T) {
	tl := NewTimeLimit(&stubEnv{}, 3)
	_, _, err := tl.Reset(nil)
	require.NoError(t, err)

	for i := 1; i <= 2; i++ {
		s, err := tl.Step(0)
		require.NoError(t, err)
		assert.Falsef(t, s.Truncated, "step %d must not truncate", i)
	}

	s, err := tl.Step(0)
	require.NoError(t, err)
	assert.True(t, s.Truncated)
	assert.False(t, s.Terminated)
}

func TestTimeLimitCounterClearsOnReset(t *testing.T) {
	tl := NewTimeLimit(&stubEnv{}, 2)
	_, _, err := tl.Reset(nil)
	require.NoError(t, err)

	_, err = tl.Step(0)
	require.NoError(t, err)

	_, _, err = tl.Reset(nil)
	require.NoError(t, err)

	s, err := tl.Step(0)
	require.NoError(t, err)
	assert.False(t, s.Truncated)

	s, err = tl.Step(0)
	require.NoError(t, err)
	assert.True(t, s.Truncated)
}

func TestTimeLimitNeverMasksNativeTermination(t *testing.T) {
	tl := NewTimeLimit(&stubEnv{terminateAt: 2}, 2)
	_, _, err := tl.Reset(nil)
	require.NoError(t, err)

	_, err = tl.Step(0)
	require.NoError(t, err)

	// Native terminal and time limit coincide: both signals survive.
	s, err := tl.Step(0)
	require.NoError(t, err)
	assert.True(t, s.Terminated)
	assert.True(t, s.Truncated)
}

func TestTransformRewardComposesInnermostFirst(t *testing.T) {
	f := func(r float64) float64 { return r + 1 }
	g := func(r float64) float64 { return r * 10 }

	// Wrapping with f first and g second must yield g(f(raw)).
	env := NewTransformReward(NewTransformReward(&stubEnv{}, f), g)
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	want := []float64{20, 30, 40} // raw rewards 1,2,3
	for _, w := range want {
		s, err := env.Step(0)
		require.NoError(t, err)
		assert.Equal(t, w, s.Reward)
	}
}

func TestTransformObservationAppliesOnResetAndStep(t *testing.T) {
	double := func(obs any) any { return obs.(int) * 2 }
	env := NewTransformObservation(&stubEnv{}, double)

	obs, _, err := env.Reset(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, obs)

	s, err := env.Step(0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Observation)
}

func TestTransformActionRewritesIncomingAction(t *testing.T) {
	inner := &stubEnv{}
	env := NewTransformAction(inner, func(a any) any { return a.(int) + 100 })
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	_, err = env.Step(1)
	require.NoError(t, err)
	assert.Equal(t, 101, inner.lastAction)
}

func TestClipActionClampsScalars(t *testing.T) {
	inner := &stubEnv{}
	env := NewClipAction(inner, -1, 1)
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	_, err = env.Step(5.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, inner.lastAction)

	_, err = env.Step(-2.5)
	require.NoError(t, err)
	assert.Equal(t, -1.0, inner.lastAction)

	// Non-scalar actions pass through untouched.
	_, err = env.Step("noop")
	require.NoError(t, err)
	assert.Equal(t, "noop", inner.lastAction)
}

func TestClipRewardClamps(t *testing.T) {
	env := NewClipReward(&stubEnv{}, 0, 2)
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	rewards := []float64{1, 2, 2, 2} // raw 1,2,3,4
	for _, want := range rewards {
		s, err := env.Step(0)
		require.NoError(t, err)
		assert.Equal(t, want, s.Reward)
	}
}

func TestRecordEpisodeStatisticsInjectsOnEpisodeEnd(t *testing.T) {
	env := NewRecordEpisodeStatistics(&stubEnv{terminateAt: 3})
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		s, err := env.Step(0)
		require.NoError(t, err)
		_, ok := s.Info.Get(EpisodeReturnKey)
		assert.False(t, ok)
	}

	s, err := env.Step(0)
	require.NoError(t, err)
	require.True(t, s.Terminated)

	ret, ok := s.Info.GetFloat(EpisodeReturnKey)
	require.True(t, ok)
	assert.Equal(t, 6.0, ret) // 1+2+3

	length, ok := s.Info.GetInt(EpisodeLengthKey)
	require.True(t, ok)
	assert.Equal(t, int64(3), length)
}

func TestRecordEpisodeStatisticsClearsBetweenEpisodes(t *testing.T) {
	env := NewRecordEpisodeStatistics(&stubEnv{terminateAt: 2})
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	_, err = env.Step(0)
	require.NoError(t, err)
	_, err = env.Step(0)
	require.NoError(t, err)

	_, _, err = env.Reset(nil)
	require.NoError(t, err)

	_, err = env.Step(0)
	require.NoError(t, err)
	s, err := env.Step(0)
	require.NoError(t, err)
	require.True(t, s.Terminated)

	ret, ok := s.Info.GetFloat(EpisodeReturnKey)
	require.True(t, ok)
	assert.Equal(t, 3.0, ret) // fresh accumulation: 1+2
}

func TestWrapperStackTimeLimitOverStatistics(t *testing.T) {
	// Statistics outermost so it observes the time limit's truncation.
	env := NewRecordEpisodeStatistics(NewTimeLimit(&stubEnv{}, 2))
	_, _, err := env.Reset(nil)
	require.NoError(t, err)

	_, err = env.Step(0)
	require.NoError(t, err)

	s, err := env.Step(0)
	require.NoError(t, err)
	require.True(t, s.Truncated)

	length, ok := s.Info.GetInt(EpisodeLengthKey)
	require.True(t, ok)
	assert.Equal(t, int64(2), length)
}
