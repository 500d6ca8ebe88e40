package static

import (
	"github.com/wrenfold/resonance/track"
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

// LoopBehavior makes a sound wrap back to StartPosition instead of
// stopping when it reaches the end of its data.
type LoopBehavior struct {
	StartPosition float64
}

// Settings configures a StaticSound at construction time.
type Settings struct {
	StartTime    tween.StartTime
	Volume       value.Value[float64]
	PlaybackRate value.Value[value.PlaybackRate]
	Panning      value.Value[float64]
	Reverse      bool
	LoopBehavior *LoopBehavior
	Track        track.Id
	FadeInTween  *tween.Tween
}

// DefaultSettings returns unity volume/rate, centered panning, no loop, no
// fade-in, bound to the main track, starting immediately.
func DefaultSettings() Settings {
	return Settings{
		StartTime:    tween.Now(),
		Volume:       value.FixedFloat64(1.0),
		PlaybackRate: value.FixedPlaybackRate(value.Factor(1.0)),
		Panning:      value.FixedFloat64(0.5),
		Track:        track.Main,
	}
}
