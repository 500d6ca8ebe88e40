package track

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/value"
)

// centerGain is the per-channel gain the equal-power pan law applies at
// its default centered panning (0.5): sqrt(0.5), so a centered mono
// source never gets louder than a hard-panned one.
var centerGain = math.Sqrt(0.5)

func TestMainTrackPassesInputThroughAtUnityVolume(t *testing.T) {
	params := parameter.NewRegistry(1)
	clocks := clock.NewRegistry(1)
	tr := NewMain(params)

	tr.OnStartProcessing(params)
	tr.AddInput(dsp.Frame{Left: 0.4, Right: 0.6})
	out := tr.Process(time.Second/44100, clocks, params)

	assert.InDelta(t, 0.4*centerGain, out.Left, 1e-9)
	assert.InDelta(t, 0.6*centerGain, out.Right, 1e-9)
}

func TestTrackAppliesVolumeAndSilentWithNoInput(t *testing.T) {
	params := parameter.NewRegistry(1)
	clocks := clock.NewRegistry(1)
	b := NewBuilder().Volume(value.FixedFloat64(0.5))
	tr := New(b, 44100, params, 4)

	tr.OnStartProcessing(params)
	out := tr.Process(time.Second/44100, clocks, params)
	assert.Equal(t, dsp.Silence, out, "a track with no accumulated input must output silence")

	tr.AddInput(dsp.Frame{Left: 1.0, Right: 1.0})
	out = tr.Process(time.Second/44100, clocks, params)
	assert.InDelta(t, 0.5*centerGain, out.Left, 1e-9)
}

func TestTrackInputAccumulatorResetsEachSample(t *testing.T) {
	params := parameter.NewRegistry(1)
	clocks := clock.NewRegistry(1)
	tr := NewMain(params)
	tr.OnStartProcessing(params)

	tr.AddInput(dsp.Frame{Left: 1.0, Right: 1.0})
	first := tr.Process(time.Second/44100, clocks, params)
	second := tr.Process(time.Second/44100, clocks, params)

	assert.NotEqual(t, dsp.Silence, first)
	assert.Equal(t, dsp.Silence, second, "input accumulated for one sample must not carry over to the next")
}

func TestSetVolumeAppliesAtNextBlock(t *testing.T) {
	params := parameter.NewRegistry(1)
	clocks := clock.NewRegistry(1)
	tr := NewMain(params)
	tr.OnStartProcessing(params)

	require.NoError(t, tr.SetVolume(value.FixedFloat64(0.25)))
	tr.AddInput(dsp.Frame{Left: 1.0, Right: 1.0})

	// Not yet applied: OnStartProcessing for the next block hasn't run.
	out := tr.Process(time.Second/44100, clocks, params)
	assert.InDelta(t, 1.0*centerGain, out.Left, 1e-9)

	tr.OnStartProcessing(params)
	tr.AddInput(dsp.Frame{Left: 1.0, Right: 1.0})
	out = tr.Process(time.Second/44100, clocks, params)
	assert.InDelta(t, 0.25*centerGain, out.Left, 1e-9)
}
