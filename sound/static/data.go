// Package static implements in-memory sample playback: the whole sound is
// already decoded into a frame buffer, so position lookups are simple
// indexed reads with a zero-frame boundary.
package static

import (
	"math"

	"github.com/wrenfold/resonance/dsp"
)

// Data is an immutable, fully-decoded sample buffer. Decoding itself is
// out of scope; callers construct Data directly from already-decoded
// frames (see SPEC_FULL.md's Non-goals).
type Data struct {
	SampleRate uint32
	Frames     []dsp.Frame
}

// Duration returns the sample's length in seconds.
func (d *Data) Duration() float64 {
	if d.SampleRate == 0 {
		return 0
	}
	return float64(len(d.Frames)) / float64(d.SampleRate)
}

// frameAtPosition returns the frame at the given position in seconds,
// treating anything before the first frame or past the end of the frame
// buffer as silence -- the zero-frame boundary behavior the position state machine
// relies on instead of a separate explicit end check.
func (d *Data) frameAtPosition(position float64) dsp.Frame {
	index := int(math.Floor(position * float64(d.SampleRate)))
	if index < 0 || index >= len(d.Frames) {
		return dsp.Silence
	}
	return d.Frames[index]
}
