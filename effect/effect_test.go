package effect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wrenfold/resonance/dsp"
)

func TestEqualPowerMixConservesEnergyAtHalfway(t *testing.T) {
	wet := dsp.Frame{Left: 1.0, Right: 1.0}
	dry := dsp.Frame{Left: 1.0, Right: 1.0}

	out := EqualPowerMix(wet, dry, 0.5)

	// At mix=0.5 both gains are sqrt(0.5), so each channel's energy should
	// sum to the same total power the two unit-amplitude inputs carry.
	expected := math.Sqrt(0.5)*1.0 + math.Sqrt(0.5)*1.0
	assert.InDelta(t, expected, out.Left, 1e-9)
	assert.InDelta(t, expected, out.Right, 1e-9)
}

func TestEqualPowerMixEndpointsAreFullyWetOrDry(t *testing.T) {
	wet := dsp.Frame{Left: 1.0, Right: -1.0}
	dry := dsp.Frame{Left: 0.5, Right: 0.5}

	fullyWet := EqualPowerMix(wet, dry, 1.0)
	assert.InDelta(t, wet.Left, fullyWet.Left, 1e-9)
	assert.InDelta(t, wet.Right, fullyWet.Right, 1e-9)

	fullyDry := EqualPowerMix(wet, dry, 0.0)
	assert.InDelta(t, dry.Left, fullyDry.Left, 1e-9)
	assert.InDelta(t, dry.Right, fullyDry.Right, 1e-9)
}

func TestEqualPowerMixNegativeMixClampsToZeroGain(t *testing.T) {
	wet := dsp.Frame{Left: 1.0, Right: 1.0}
	dry := dsp.Frame{Left: 1.0, Right: 1.0}

	// sqrt of a negative mix would be NaN without the effect package's
	// clamped sqrt helper.
	out := EqualPowerMix(wet, dry, -0.2)
	assert.False(t, math.IsNaN(out.Left))
	assert.False(t, math.IsNaN(out.Right))
}
