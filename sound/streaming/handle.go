package streaming

import (
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

// Handle is the control-side reference to a live streaming Sound.
type Handle struct {
	sound *Sound
}

// NewHandle wraps s in a control-side Handle.
func NewHandle(s *Sound) Handle {
	return Handle{sound: s}
}

// SetVolume replaces the sound's volume setting.
func (h Handle) SetVolume(v value.Value[float64]) error {
	return h.sound.pushCommand(command{setVolume: &v})
}

// SetPlaybackRate replaces the sound's playback rate setting.
func (h Handle) SetPlaybackRate(v value.Value[value.PlaybackRate]) error {
	return h.sound.pushCommand(command{setPlaybackRate: &v})
}

// SetPanning replaces the sound's panning setting.
func (h Handle) SetPanning(v value.Value[float64]) error {
	return h.sound.pushCommand(command{setPanning: &v})
}

// Pause fades the sound out to silence over tw.
func (h Handle) Pause(tw tween.Tween) error {
	return h.sound.pushCommand(command{pause: &tw})
}

// Resume fades the sound back in over tw.
func (h Handle) Resume(tw tween.Tween) error {
	return h.sound.pushCommand(command{resume: &tw})
}

// Stop fades the sound out over tw and latches it at Stopped.
func (h Handle) Stop(tw tween.Tween) error {
	return h.sound.pushCommand(command{stop: &tw})
}

// UnderrunCount returns the decoder underrun count, for telemetry.
func (h Handle) UnderrunCount() uint64 {
	return h.sound.UnderrunCount()
}

// MarkForRemoval flags the underlying sound's Shared removal flag. The
// decoder goroutine keeps running until the sound actually finishes and
// the renderer evicts it -- the control side closes it at that point (see
// Manager's removed-sound drain loop), so a fade-out or tail still playing
// when MarkForRemoval is called isn't cut short.
func (h Handle) MarkForRemoval() {
	h.sound.Shared.MarkForRemoval()
}
