// Package streaming implements decoder-fed playback: a dedicated decoder
// goroutine produces frames into a bounded channel that the renderer
// drains, so the render thread itself never blocks on I/O or decoding
// work. Audio file decoding itself is out of scope; Decoder is the
// extension point a concrete format would implement.
package streaming

import "github.com/wrenfold/resonance/dsp"

// Decoder produces frames for a streaming sound. Implementations run
// entirely off the render thread.
type Decoder interface {
	SampleRate() uint32
	// NextFrame returns the next frame, or ok=false at end of stream. It
	// may block.
	NextFrame() (dsp.Frame, bool)
	// Seek repositions the decoder to the given time in seconds.
	Seek(seconds float64) error
}
