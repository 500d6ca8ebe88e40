package tween

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold/resonance/clock"
)

func TestTweenableZeroDurationSnapsImmediately(t *testing.T) {
	tw := NewTweenable(0.0, LerpFloat64)
	clocks := clock.NewRegistry(1)

	tw.StartTween(10.0, Tween{Duration: 0, Easing: Linear{}, Start: Now()})
	finished := tw.Update(time.Millisecond, clocks)

	assert.True(t, finished)
	assert.Equal(t, 10.0, tw.Value())
	assert.False(t, tw.Tweening())
}

func TestTweenableLinearProgressHalfway(t *testing.T) {
	tw := NewTweenable(0.0, LerpFloat64)
	clocks := clock.NewRegistry(1)

	tw.StartTween(10.0, Tween{Duration: time.Second, Easing: Linear{}, Start: Now()})

	finished := tw.Update(500*time.Millisecond, clocks)
	assert.False(t, finished)
	assert.InDelta(t, 5.0, tw.Value(), 1e-9)

	finished = tw.Update(500*time.Millisecond, clocks)
	assert.True(t, finished)
	assert.Equal(t, 10.0, tw.Value())
}

func TestTweenableConvergesExactlyAtDuration(t *testing.T) {
	tw := NewTweenable(2.0, LerpFloat64)
	clocks := clock.NewRegistry(1)

	tw.StartTween(8.0, Tween{Duration: 200 * time.Millisecond, Easing: Linear{}, Start: Now()})

	var finished bool
	for i := 0; i < 20 && !finished; i++ {
		finished = tw.Update(10*time.Millisecond, clocks)
	}
	require.True(t, finished, "tween must converge within its own duration")
	assert.Equal(t, 8.0, tw.Value())
}

func TestTweenableWaitsForClockGatedStart(t *testing.T) {
	tw := NewTweenable(0.0, LerpFloat64)
	clocks := clock.NewRegistry(1)

	ctrl := clocks.Controller()
	key, err := ctrl.Reserve()
	require.NoError(t, err)
	clk := clock.New(0.5, 4)
	clocks.Insert(key, clk)
	clk.PushCommand(clock.Command{Start: true})
	clocks.OnStartProcessing()

	id := clock.Id(key)
	tw.StartTween(1.0, Tween{Duration: 0, Easing: Linear{}, Start: At(clock.Time{Clock: id, Ticks: 1})})

	finished := tw.Update(500*time.Millisecond, clocks)
	assert.False(t, finished, "tween must not advance before its gating clock has ticked")
	assert.Equal(t, 0.0, tw.Value())

	clocks.Update(600 * time.Millisecond)
	finished = tw.Update(time.Millisecond, clocks)
	assert.True(t, finished, "tween must fire once the gating clock reaches its tick")
	assert.Equal(t, 1.0, tw.Value())
}

func TestSetCancelsInProgressTween(t *testing.T) {
	tw := NewTweenable(0.0, LerpFloat64)
	clocks := clock.NewRegistry(1)

	tw.StartTween(10.0, Tween{Duration: time.Second, Easing: Linear{}, Start: Now()})
	tw.Update(200*time.Millisecond, clocks)

	tw.Set(99.0)
	assert.False(t, tw.Tweening())
	assert.Equal(t, 99.0, tw.Value())
}
