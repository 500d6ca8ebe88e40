package static

import (
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

// command is a control-side request applied at the start of the next
// block the sound is processed in.
type command struct {
	setVolume       *value.Value[float64]
	setPlaybackRate *value.Value[value.PlaybackRate]
	setPanning      *value.Value[float64]
	pause           *tween.Tween
	resume          *tween.Tween
	stop            *tween.Tween
}
