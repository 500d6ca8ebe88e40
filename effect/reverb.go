package effect

import (
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/value"
)

// referenceCombTuningsL are the Freeverb reference comb-filter delay
// lengths in samples at 44100 Hz, scaled by sample_rate/44100 at Init.
var referenceCombTuningsL = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}

// referenceAllPassTuningsL are the Freeverb reference all-pass delay
// lengths in samples at 44100 Hz.
var referenceAllPassTuningsL = [4]int{556, 441, 341, 225}

// stereoSpread is the extra sample offset applied to every right-channel
// delay line, so the two channels decorrelate.
const stereoSpread = 23

// reverbInputGain scales the mono-summed input before it reaches the comb
// filters, matching the reference Freeverb algorithm's gain compensation.
const reverbInputGain = 0.015

// ReverbSettings configures a Reverb effect at construction time.
type ReverbSettings struct {
	Feedback     value.Value[float64]
	Damping      value.Value[float64]
	StereoWidth  value.Value[float64]
	Mix          value.Value[float64]
}

// DefaultReverbSettings returns a moderate, fully-wet room reverb.
func DefaultReverbSettings() ReverbSettings {
	return ReverbSettings{
		Feedback:    value.FixedFloat64(0.84),
		Damping:     value.FixedFloat64(0.2),
		StereoWidth: value.FixedFloat64(1.0),
		Mix:         value.FixedFloat64(1.0),
	}
}

// ReverbHandle is the control-side reference to a live Reverb.
type ReverbHandle struct {
	setFeedback    func(value.Value[float64])
	setDamping     func(value.Value[float64])
	setStereoWidth func(value.Value[float64])
	setMix         func(value.Value[float64])
}

// SetFeedback replaces the comb-filter feedback setting, in [0, 1).
func (h ReverbHandle) SetFeedback(v value.Value[float64]) { h.setFeedback(v) }

// SetDamping replaces the high-frequency damping setting, in [0, 1].
func (h ReverbHandle) SetDamping(v value.Value[float64]) { h.setDamping(v) }

// SetStereoWidth replaces the stereo width setting, in [0, 1].
func (h ReverbHandle) SetStereoWidth(v value.Value[float64]) { h.setStereoWidth(v) }

// SetMix replaces the wet/dry mix setting.
func (h ReverbHandle) SetMix(v value.Value[float64]) { h.setMix(v) }

// comb is a single damped feedback comb filter, one per channel.
type comb struct {
	buffer []float64
	index  int
	store  float64
}

func newComb(length int) *comb {
	if length < 1 {
		length = 1
	}
	return &comb{buffer: make([]float64, length)}
}

func (c *comb) process(input, feedback, damp1, damp2 float64) float64 {
	output := c.buffer[c.index]
	c.store = output*damp2 + c.store*damp1
	c.buffer[c.index] = input + c.store*feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return output
}

// allPass is a Schroeder all-pass filter, one per channel.
type allPass struct {
	buffer []float64
	index  int
}

func newAllPass(length int) *allPass {
	if length < 1 {
		length = 1
	}
	return &allPass{buffer: make([]float64, length)}
}

const allPassFeedback = 0.5

func (a *allPass) process(input float64) float64 {
	bufout := a.buffer[a.index]
	output := -input + bufout
	a.buffer[a.index] = input + bufout*allPassFeedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return output
}

// Reverb is a Freeverb-style reverberator: eight damped comb filters in
// parallel feeding four all-pass filters in series, per channel.
type Reverb struct {
	settings ReverbSettings

	feedback    *value.CachedValue[float64]
	damping     *value.CachedValue[float64]
	stereoWidth *value.CachedValue[float64]
	mix         *value.CachedValue[float64]

	combsL, combsR       [8]*comb
	allPassesL, allPassesR [4]*allPass
}

// NewReverb constructs a Reverb and its handle from settings.
func NewReverb(settings ReverbSettings, params *parameter.Parameters) (*Reverb, ReverbHandle) {
	r := &Reverb{
		settings:    settings,
		feedback:    value.NewCachedValue(settings.Feedback, params),
		damping:     value.NewCachedValue(settings.Damping, params),
		stereoWidth: value.NewCachedValue(settings.StereoWidth, params),
		mix:         value.NewCachedValue(settings.Mix, params),
	}
	handle := ReverbHandle{
		setFeedback:    func(v value.Value[float64]) { r.settings.Feedback = v },
		setDamping:     func(v value.Value[float64]) { r.settings.Damping = v },
		setStereoWidth: func(v value.Value[float64]) { r.settings.StereoWidth = v },
		setMix:         func(v value.Value[float64]) { r.settings.Mix = v },
	}
	return r, handle
}

// Init allocates the comb and all-pass delay lines, scaled from the
// reference 44100 Hz tunings to the actual sample rate.
func (r *Reverb) Init(sampleRate float64) {
	scale := sampleRate / 44100.0
	for i, length := range referenceCombTuningsL {
		r.combsL[i] = newComb(int(float64(length) * scale))
		r.combsR[i] = newComb(int(float64(length)*scale) + stereoSpread)
	}
	for i, length := range referenceAllPassTuningsL {
		r.allPassesL[i] = newAllPass(int(float64(length) * scale))
		r.allPassesR[i] = newAllPass(int(float64(length)*scale) + stereoSpread)
	}
}

// OnStartProcessing refreshes feedback, damping, stereo width, and mix
// against current parameters.
func (r *Reverb) OnStartProcessing(params *parameter.Parameters) {
	r.feedback.Set(r.settings.Feedback, params)
	r.damping.Set(r.settings.Damping, params)
	r.stereoWidth.Set(r.settings.StereoWidth, params)
	r.mix.Set(r.settings.Mix, params)
}

// Process sums the input to mono, runs it through the comb/all-pass
// network per channel, blends stereo width, and wet/dry mixes.
func (r *Reverb) Process(input dsp.Frame, dt time.Duration, clocks *clock.Clocks) dsp.Frame {
	mono := (input.Left + input.Right) * reverbInputGain

	feedback := r.feedback.Value()
	damp1 := clampUnit(r.damping.Value())
	damp2 := 1 - damp1

	var outL, outR float64
	for i := 0; i < 8; i++ {
		outL += r.combsL[i].process(mono, feedback, damp1, damp2)
		outR += r.combsR[i].process(mono, feedback, damp1, damp2)
	}
	for i := 0; i < 4; i++ {
		outL = r.allPassesL[i].process(outL)
		outR = r.allPassesR[i].process(outR)
	}

	width := clampUnit(r.stereoWidth.Value())
	wet1 := width/2 + 0.5
	wet2 := (1 - width) / 2
	wet := dsp.Frame{
		Left:  outL*wet1 + outR*wet2,
		Right: outR*wet1 + outL*wet2,
	}

	return EqualPowerMix(wet, input, r.mix.Value())
}
