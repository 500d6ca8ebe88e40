// Package effect implements the uniform effect contract used by every
// track's effect chain, plus the four built-in effects: delay, distortion,
// filter, and reverb.
package effect

import (
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
)

// Effect is the uniform per-sample processing contract every effect
// implements. Init is called exactly once, before the first block is
// processed; calling it twice is a programmer error. OnStartProcessing
// runs once per block, before any sample in that block is processed, and
// is where an effect refreshes its CachedValue settings against the
// current Parameters registry. Process runs once per sample and must
// never allocate.
type Effect interface {
	Init(sampleRate float64)
	OnStartProcessing(params *parameter.Parameters)
	Process(input dsp.Frame, dt time.Duration, clocks *clock.Clocks) dsp.Frame
}

// Builder constructs an Effect together with its control-side Handle, so
// callers always get a typed settings/handle pair instead of positional
// constructor arguments. The built-in effects do not implement Builder;
// their NewDelay, NewDistortion, NewFilter and NewReverb constructors
// return the same effect/handle pair directly.
type Builder[H any] interface {
	Build() (Effect, H)
}

// EqualPowerMix blends wet and dry signals so the combined energy stays
// constant as mix sweeps from 0 to 1: out = wet*sqrt(mix) + dry*sqrt(1-mix).
func EqualPowerMix(wet, dry dsp.Frame, mix float64) dsp.Frame {
	wetGain := sqrt(mix)
	dryGain := sqrt(1 - mix)
	return wet.Scale(wetGain).Add(dry.Scale(dryGain))
}
