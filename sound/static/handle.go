package static

import (
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

// Handle is the control-side reference to a live Sound. Calling
// MarkForRemoval flags the underlying sound; the renderer evicts it once it
// is both flagged and Stopped.
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

// Pause fades the sound out to silence over tw and holds it there; the
// position does not advance while it is held, so Resume picks back up
// where the fade-out ended.
func (h Handle) Pause(tw tween.Tween) error {
	return h.sound.pushCommand(command{pause: &tw})
}

// Resume fades the sound back in over tw from wherever Pause left it.
func (h Handle) Resume(tw tween.Tween) error {
	return h.sound.pushCommand(command{resume: &tw})
}

// Stop fades the sound out over tw and then latches it at Stopped, a
// terminal state it can never leave.
func (h Handle) Stop(tw tween.Tween) error {
	return h.sound.pushCommand(command{stop: &tw})
}

// State returns the sound's last-observed playback state. Since state is
// only ever written on the renderer thread, this read is only meaningful
// as a best-effort snapshot for UI/telemetry purposes, not for
// synchronization.
func (h Handle) State() PlaybackState {
	return PlaybackState(h.sound.State())
}

// PlaybackState mirrors sound.PlaybackState so callers of this package
// don't need to import the sound package directly just to inspect state.
type PlaybackState int

// MarkForRemoval flags the underlying sound's Shared removal flag. Called
// when the last Handle referencing this sound is dropped.
func (h Handle) MarkForRemoval() {
	h.sound.Shared.MarkForRemoval()
}
