package effect

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
)

func TestReverbTailDecaysAndStaysFinite(t *testing.T) {
	params := parameter.NewRegistry(1)
	r, _ := NewReverb(DefaultReverbSettings(), params)
	r.Init(44100)
	r.OnStartProcessing(params)

	dt := time.Second / 44100
	out := r.Process(dsp.Frame{Left: 1, Right: 1}, dt, nil)
	requireFinite(t, out)

	for i := 0; i < 200000; i++ {
		out = r.Process(dsp.Silence, dt, nil)
	}
	requireFinite(t, out)
	assert.Less(t, math.Abs(out.Left), 0.05, "the reverb tail must have decayed to near-silence after 200000 silent samples")
}

func requireFinite(t *testing.T, f dsp.Frame) {
	t.Helper()
	assert.False(t, math.IsNaN(f.Left) || math.IsInf(f.Left, 0))
	assert.False(t, math.IsNaN(f.Right) || math.IsInf(f.Right, 0))
}
