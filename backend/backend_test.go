package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingRenderer counts calls and returns a fixed frame, so tests can
// assert Mock drives exactly one OnStartProcessing per block and exactly
// numSamples Process calls.
type countingRenderer struct {
	startCount   int
	processCount int
}

func (r *countingRenderer) OnStartProcessing() {
	r.startCount++
}

func (r *countingRenderer) Process() (float64, float64) {
	r.processCount++
	return 0.25, -0.25
}

func TestMockRenderBlockCallsStartOnceAndProcessPerSample(t *testing.T) {
	r := &countingRenderer{}
	m := NewMock(44100)
	a := assert.New(t)
	a.NoError(m.Init(r))

	out := m.RenderBlock(10)
	a.Equal(1, r.startCount)
	a.Equal(10, r.processCount)
	a.Len(out, 10)
	a.Equal([2]float64{0.25, -0.25}, out[0])
}

func TestMockSampleRateReflectsConstruction(t *testing.T) {
	m := NewMock(48000)
	assert.Equal(t, 48000.0, m.SampleRate())
}
