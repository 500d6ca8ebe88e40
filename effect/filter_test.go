package effect

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/value"
)

// TestFilterLowPassAttenuatesHighFrequency feeds a Nyquist-rate alternating
// signal (the highest frequency representable) through a low cutoff and
// checks the steady-state output settles well below the input amplitude.
func TestFilterLowPassAttenuatesHighFrequency(t *testing.T) {
	params := parameter.NewRegistry(1)
	settings := DefaultFilterSettings()
	settings.Cutoff = value.FixedFloat64(200.0)
	f, _ := NewFilter(settings, params)
	f.Init(44100)
	f.OnStartProcessing(params)

	dt := time.Second / 44100
	var out dsp.Frame
	sign := 1.0
	for i := 0; i < 2000; i++ {
		in := dsp.Frame{Left: sign, Right: sign}
		out = f.Process(in, dt, nil)
		sign = -sign
	}
	assert.Less(t, math.Abs(out.Left), 0.5, "a 200 Hz low-pass must substantially attenuate a Nyquist-rate input")
}

func TestFilterProducesNoNaNAtZeroCutoff(t *testing.T) {
	params := parameter.NewRegistry(1)
	settings := DefaultFilterSettings()
	settings.Cutoff = value.FixedFloat64(0.0)
	f, _ := NewFilter(settings, params)
	f.Init(44100)
	f.OnStartProcessing(params)

	out := f.Process(dsp.Frame{Left: 1, Right: 1}, time.Second/44100, nil)
	assert.False(t, math.IsNaN(out.Left))
	assert.False(t, math.IsNaN(out.Right))
}
