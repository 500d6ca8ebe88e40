package static

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

func fourFrameData(sampleRate uint32) *Data {
	return &Data{
		SampleRate: sampleRate,
		Frames: []dsp.Frame{
			{Left: 1.0, Right: 1.0},
			{Left: 0.5, Right: 0.5},
			{Left: -0.5, Right: -0.5},
			{Left: -1.0, Right: -1.0},
		},
	}
}

func TestSoundAdvancesPositionAndStopsAtEndWithNoLoop(t *testing.T) {
	params := parameter.NewRegistry(4)
	clocks := clock.NewRegistry(1)
	data := fourFrameData(4)
	settings := DefaultSettings()
	settings.Panning = value.FixedFloat64(0.5)
	s := New(data, settings, params, 4)
	s.OnStartProcessing(params)

	dt := time.Second / 4
	for i := 0; i < 4; i++ {
		out := s.Process(dt, clocks, params)
		assert.NotEqual(t, dsp.Silence, out, "frame %d should have produced sound", i)
	}
	assert.True(t, s.Finished(), "sound must be Stopped once it runs past the end of its data")
	out := s.Process(dt, clocks, params)
	assert.Equal(t, dsp.Silence, out)
}

func TestSoundLoopsBackToStartPosition(t *testing.T) {
	params := parameter.NewRegistry(4)
	clocks := clock.NewRegistry(1)
	data := fourFrameData(4)
	settings := DefaultSettings()
	settings.LoopBehavior = &LoopBehavior{StartPosition: 0}
	s := New(data, settings, params, 4)
	s.OnStartProcessing(params)

	dt := time.Second / 4
	for i := 0; i < 8; i++ {
		s.Process(dt, clocks, params)
	}
	assert.False(t, s.Finished(), "a looping sound never reaches Stopped")
}

func TestSoundReversePlaysFromEndTowardStart(t *testing.T) {
	params := parameter.NewRegistry(4)
	clocks := clock.NewRegistry(1)
	data := fourFrameData(4)
	settings := DefaultSettings()
	settings.Reverse = true
	s := New(data, settings, params, 4)
	s.OnStartProcessing(params)

	assert.InDelta(t, data.Duration(), s.Position(), 1e-9)
}

func TestSoundPauseHoldsPositionAndResumeContinues(t *testing.T) {
	params := parameter.NewRegistry(4)
	clocks := clock.NewRegistry(1)
	data := fourFrameData(4)
	s := New(data, DefaultSettings(), params, 4)
	s.OnStartProcessing(params)

	handle := NewHandle(s)
	dt := time.Second / 4
	s.Process(dt, clocks, params)
	posBeforePause := s.Position()

	require.NoError(t, handle.Pause(tween.Default()))
	s.OnStartProcessing(params)
	s.Process(dt, clocks, params)
	assert.InDelta(t, posBeforePause, s.Position(), 1e-9, "a paused sound must not advance position")

	require.NoError(t, handle.Resume(tween.Default()))
	s.OnStartProcessing(params)
	s.Process(dt, clocks, params)
	assert.Greater(t, s.Position(), posBeforePause, "resuming must continue advancing position")
}

func TestSoundStopIsTerminalAfterFadeCompletes(t *testing.T) {
	params := parameter.NewRegistry(4)
	clocks := clock.NewRegistry(1)
	data := fourFrameData(4)
	s := New(data, DefaultSettings(), params, 4)
	s.OnStartProcessing(params)

	handle := NewHandle(s)
	require.NoError(t, handle.Stop(tween.Default()))
	s.OnStartProcessing(params)
	s.Process(time.Second/4, clocks, params)

	assert.True(t, s.Finished())

	require.NoError(t, handle.Resume(tween.Default()))
	s.OnStartProcessing(params)
	assert.True(t, s.Finished(), "Stopped must be terminal: a resume after stop must have no effect")
}

func TestSoundWaitsForGatedStartTime(t *testing.T) {
	params := parameter.NewRegistry(4)
	clocks := clock.NewRegistry(1)
	clockKey, err := clocks.Controller().Reserve()
	require.NoError(t, err)
	c := clock.New(1.0, 4)
	clocks.Insert(clockKey, c)
	c.PushCommand(clock.Command{Start: true})
	clocks.OnStartProcessing()

	data := fourFrameData(4)
	settings := DefaultSettings()
	settings.StartTime = tween.At(clock.Time{Clock: clock.Id(clockKey), Ticks: 1})
	s := New(data, settings, params, 4)
	s.OnStartProcessing(params)

	dt := time.Second / 4
	out := s.Process(dt, clocks, params)
	assert.Equal(t, dsp.Silence, out, "must stay silent until its gating clock has ticked")

	clocks.Update(time.Second * 2)
	out = s.Process(dt, clocks, params)
	assert.NotEqual(t, dsp.Silence, out, "must start producing sound once the gating clock has ticked")
}
