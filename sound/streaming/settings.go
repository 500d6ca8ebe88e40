package streaming

import (
	"github.com/wrenfold/resonance/track"
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

// Settings configures a Sound at construction time.
type Settings struct {
	StartTime    tween.StartTime
	Volume       value.Value[float64]
	PlaybackRate value.Value[value.PlaybackRate]
	Panning      value.Value[float64]
	Track        track.Id
	FadeInTween  *tween.Tween
	// BufferedFrames sizes the channel the decoder goroutine fills and the
	// renderer drains; it bounds how far ahead of playback the decoder is
	// allowed to run.
	BufferedFrames int
}

// DefaultSettings returns unity volume/rate, centered panning, bound to
// the main track, starting immediately, with a quarter-second buffer at a
// nominal 44100 Hz.
func DefaultSettings() Settings {
	return Settings{
		StartTime:      tween.Now(),
		Volume:         value.FixedFloat64(1.0),
		PlaybackRate:   value.FixedPlaybackRate(value.Factor(1.0)),
		Panning:        value.FixedFloat64(0.5),
		Track:          track.Main,
		BufferedFrames: 11025,
	}
}
