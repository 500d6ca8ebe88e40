package value

import (
	"math"

	"github.com/wrenfold/resonance/parameter"
)

// PlaybackRate expresses a sound's speed either as a direct multiplying
// factor or in semitones, the two being freely interconvertible:
// factor = 2^(semitones/12).
type PlaybackRate struct {
	factor float64
}

// Factor returns a PlaybackRate expressed as a direct multiplier (1.0 is
// normal speed).
func Factor(f float64) PlaybackRate {
	return PlaybackRate{factor: f}
}

// Semitones returns a PlaybackRate expressed in semitones above (positive)
// or below (negative) normal speed.
func Semitones(s float64) PlaybackRate {
	return PlaybackRate{factor: math.Pow(2, s/12.0)}
}

// AsFactor returns the playback rate as a direct multiplier.
func (p PlaybackRate) AsFactor() float64 {
	return p.factor
}

// AsSemitones returns the playback rate expressed in semitones.
func (p PlaybackRate) AsSemitones() float64 {
	return 12.0 * math.Log2(p.factor)
}

// LerpPlaybackRate is the tween.Lerp implementation for PlaybackRate,
// interpolating in factor space.
func LerpPlaybackRate(a, b PlaybackRate, amount float64) PlaybackRate {
	return Factor(a.factor + (b.factor-a.factor)*amount)
}

// FixedPlaybackRate returns a Value[PlaybackRate] holding a constant.
func FixedPlaybackRate(p PlaybackRate) Value[PlaybackRate] {
	return Fixed(p)
}

// BoundPlaybackRateFactor returns a Value[PlaybackRate] bound to a
// parameter, interpreting the mapped float64 as a direct factor.
func BoundPlaybackRateFactor(id parameter.Id, mapping Mapping) Value[PlaybackRate] {
	return Bound(id, mapping, func(f float64) PlaybackRate { return Factor(f) })
}
