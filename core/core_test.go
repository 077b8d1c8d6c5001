package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoPreservesInsertionOrder(t *testing.T) {
	info := NewInfo()
	info.Set("b", int64(1))
	info.Set("a", 2.5)
	info.Set("c", "x")

	assert.Equal(t, []string{"b", "a", "c"}, info.Keys())
}

func TestInfoSetReplacesInPlace(t *testing.T) {
	info := NewInfo()
	info.Set("a", int64(1))
	info.Set("b", int64(2))
	info.Set("a", int64(3))

	assert.Equal(t, []string{"a", "b"}, info.Keys())
	v, ok := info.GetInt("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
	assert.Equal(t, 2, info.Len())
}

func TestInfoTypedGetters(t *testing.T) {
	info := NewInfo()
	info.Set("f", 1.5)
	info.Set("i", int64(7))
	info.Set("b", true)
	info.Set("s", "hello")

	f, ok := info.GetFloat("f")
	require.True(t, ok)
	assert.Equal(t, 1.5, f)

	// Integers widen to float on request.
	f, ok = info.GetFloat("i")
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	i, ok := info.GetInt("i")
	require.True(t, ok)
	assert.Equal(t, int64(7), i)

	b, ok := info.GetBool("b")
	require.True(t, ok)
	assert.True(t, b)

	s, ok := info.GetString("s")
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = info.Get("missing")
	assert.False(t, ok)
}

func TestInfoCloneIsIndependent(t *testing.T) {
	info := NewInfo()
	info.Set("a", int64(1))

	clone := info.Clone()
	clone.Set("a", int64(2))
	clone.Set("b", int64(3))

	v, _ := info.GetInt("a")
	assert.Equal(t, int64(1), v)
	assert.Equal(t, 1, info.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestStepDone(t *testing.T) {
	assert.False(t, NewStep(nil, 0, false, false, NewInfo()).Done())
	assert.True(t, NewStep(nil, 0, true, false, NewInfo()).Done())
	assert.True(t, NewStep(nil, 0, false, true, NewInfo()).Done())
	assert.True(t, NewStep(nil, 0, true, true, NewInfo()).Done())
}

func TestSlotErrorAttributionAndUnwrap(t *testing.T) {
	err := NewSlotError(3, fmt.Errorf("validating: %w", ErrInvalidAction))

	assert.Contains(t, err.Error(), "slot 3")
	assert.ErrorIs(t, err, ErrInvalidAction)

	var slotErr *SlotError
	require.True(t, errors.As(err, &slotErr))
	assert.Equal(t, 3, slotErr.Slot)
}

func TestRenderFrameConstructors(t *testing.T) {
	text := TextFrame("hello")
	assert.Equal(t, FrameText, text.Kind)
	assert.Equal(t, "hello", text.Text)

	pixels := PixelFrame(2, 1, []byte{1, 2, 3, 4, 5, 6})
	assert.Equal(t, FramePixels, pixels.Kind)
	assert.Equal(t, 2, pixels.Width)
	assert.Equal(t, 1, pixels.Height)
	assert.Len(t, pixels.Pixels, 6)
}
