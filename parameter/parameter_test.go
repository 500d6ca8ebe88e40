package parameter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold/resonance/tween"
)

func TestParameterStartsAtInitialValue(t *testing.T) {
	p := New(2.5, 4)
	assert.Equal(t, 2.5, p.Value())
	assert.Equal(t, 2.5, p.MirrorValue())
}

func TestParameterSetCommandTweensTowardTarget(t *testing.T) {
	p := New(0, 4)
	require.NoError(t, p.PushCommand(SetCommand(10, tween.Tween{
		Duration: 100 * time.Millisecond,
		Easing:   tween.Linear{},
		Start:    tween.Now(),
	})))

	p.OnStartProcessing()
	assert.Equal(t, 0.0, p.Value(), "a command must only apply once OnStartProcessing drains it")

	p.Update(50*time.Millisecond, nil)
	assert.InDelta(t, 5.0, p.Value(), 1e-6, "halfway through a linear tween the value must be halfway to target")

	p.Update(50*time.Millisecond, nil)
	assert.InDelta(t, 10.0, p.Value(), 1e-6)
}

func TestParameterMirrorTracksValueAcrossUpdates(t *testing.T) {
	p := New(0, 4)
	require.NoError(t, p.PushCommand(SetCommand(4, tween.Tween{
		Duration: 40 * time.Millisecond,
		Easing:   tween.Linear{},
		Start:    tween.Now(),
	})))
	p.OnStartProcessing()

	for i := 0; i < 4; i++ {
		p.Update(10*time.Millisecond, nil)
		assert.InDelta(t, p.Value(), p.MirrorValue(), 1e-9, "the mirror must never drift from the renderer-side value")
	}
}

func TestParameterCommandQueueReturnsErrFullWhenSaturated(t *testing.T) {
	p := New(0, 1)
	tw := tween.Default()
	require.NoError(t, p.PushCommand(SetCommand(1, tw)))
	err := p.PushCommand(SetCommand(2, tw))
	assert.Error(t, err)
}

func TestHandleReadsThroughMirrorAndPushesCommands(t *testing.T) {
	p := New(1, 4)
	h := NewHandle(Id{}, p)

	assert.Equal(t, 1.0, h.Value())

	require.NoError(t, h.Set(9, tween.Tween{Duration: 0, Easing: tween.Linear{}, Start: tween.Now()}))
	p.OnStartProcessing()
	p.Update(0, nil)
	assert.Equal(t, 9.0, h.Value())
}
