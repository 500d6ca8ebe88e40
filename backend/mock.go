package backend

// Mock drives a Renderer synchronously, entirely under the caller's
// control -- no goroutine, no real device. Tests use this to advance the
// engine block by block and sample by sample deterministically.
type Mock struct {
	sampleRate float64
	renderer   Renderer
}

// NewMock creates a Mock reporting the given sample rate.
func NewMock(sampleRate float64) *Mock {
	return &Mock{sampleRate: sampleRate}
}

// SampleRate implements Backend.
func (m *Mock) SampleRate() float64 {
	return m.sampleRate
}

// Init implements Backend: it just records the renderer, it does not
// start any background processing.
func (m *Mock) Init(renderer Renderer) error {
	m.renderer = renderer
	return nil
}

// Stop implements Backend as a no-op.
func (m *Mock) Stop() error {
	return nil
}

// RenderBlock calls OnStartProcessing once, then Process numSamples times,
// returning the rendered frames as interleaved (left, right) pairs.
func (m *Mock) RenderBlock(numSamples int) [][2]float64 {
	m.renderer.OnStartProcessing()
	out := make([][2]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		l, r := m.renderer.Process()
		out[i] = [2]float64{l, r}
	}
	return out
}
