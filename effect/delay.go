package effect

import (
	"math"
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/value"
)

// DelaySettings configures a Delay effect at construction time.
type DelaySettings struct {
	// BufferLength is the maximum delay time the ring buffer can hold; it
	// sizes the buffer and cannot be changed after Init.
	BufferLength time.Duration
	DelayTime    value.Value[float64]
	Feedback     value.Value[float64]
	Mix          value.Value[float64]
	// FeedbackEffects processes the delayed signal before it is written
	// back into the ring buffer, letting the user chain e.g. a filter
	// inside the feedback loop.
	FeedbackEffects []Effect
}

// DefaultDelaySettings returns sensible starting values: a half-second
// buffer, 0.5s delay time, no feedback, fully wet.
func DefaultDelaySettings() DelaySettings {
	return DelaySettings{
		BufferLength: 500 * time.Millisecond,
		DelayTime:    value.FixedFloat64(0.5),
		Feedback:     value.FixedFloat64(0.0),
		Mix:          value.FixedFloat64(1.0),
	}
}

// DelayHandle is the control-side reference to a live Delay.
type DelayHandle struct {
	setDelayTime func(value.Value[float64])
	setFeedback  func(value.Value[float64])
	setMix       func(value.Value[float64])
}

// SetDelayTime replaces the delay time setting.
func (h DelayHandle) SetDelayTime(v value.Value[float64]) { h.setDelayTime(v) }

// SetFeedback replaces the feedback setting.
func (h DelayHandle) SetFeedback(v value.Value[float64]) { h.setFeedback(v) }

// SetMix replaces the wet/dry mix setting.
func (h DelayHandle) SetMix(v value.Value[float64]) { h.setMix(v) }

// Delay is a feedback delay line with 4-point interpolated reads, so the
// delay time can be modulated smoothly instead of producing zipper noise.
type Delay struct {
	settings DelaySettings
	buffer   []dsp.Frame
	writeHead int
	sampleRate float64

	delayTime *value.CachedValue[float64]
	feedback  *value.CachedValue[float64]
	mix       *value.CachedValue[float64]
}

// NewDelay constructs a Delay and its handle from settings.
func NewDelay(settings DelaySettings, params *parameter.Parameters) (*Delay, DelayHandle) {
	d := &Delay{
		settings:  settings,
		delayTime: value.NewCachedValue(settings.DelayTime, params),
		feedback:  value.NewCachedValue(settings.Feedback, params),
		mix:       value.NewCachedValue(settings.Mix, params),
	}
	handle := DelayHandle{
		setDelayTime: func(v value.Value[float64]) { d.settings.DelayTime = v },
		setFeedback:  func(v value.Value[float64]) { d.settings.Feedback = v },
		setMix:       func(v value.Value[float64]) { d.settings.Mix = v },
	}
	return d, handle
}

// Init allocates the ring buffer, sized from the sample rate. Calling it
// more than once is a programmer error.
func (d *Delay) Init(sampleRate float64) {
	if d.buffer != nil {
		panic("effect: Delay.Init called more than once")
	}
	d.sampleRate = sampleRate
	capacity := int(math.Ceil(d.settings.BufferLength.Seconds() * sampleRate))
	if capacity < 4 {
		capacity = 4
	}
	d.buffer = make([]dsp.Frame, capacity)
	for _, fx := range d.settings.FeedbackEffects {
		fx.Init(sampleRate)
	}
}

// OnStartProcessing refreshes the delay time, feedback, and mix settings
// against the current parameter values.
func (d *Delay) OnStartProcessing(params *parameter.Parameters) {
	d.delayTime.Set(d.settings.DelayTime, params)
	d.feedback.Set(d.settings.Feedback, params)
	d.mix.Set(d.settings.Mix, params)
	for _, fx := range d.settings.FeedbackEffects {
		fx.OnStartProcessing(params)
	}
}

// Process reads the delayed, interpolated signal out of the ring buffer,
// runs it through the feedback effect chain, writes the fed-back sample
// back in, and returns the wet/dry mixed output.
func (d *Delay) Process(input dsp.Frame, dt time.Duration, clocks *clock.Clocks) dsp.Frame {
	n := len(d.buffer)
	delaySamples := d.delayTime.Value() * d.sampleRate
	readPos := math.Mod(float64(d.writeHead)-delaySamples, float64(n))
	if readPos < 0 {
		readPos += float64(n)
	}
	r := int(math.Floor(readPos))
	frac := readPos - float64(r)

	p0 := d.at(r - 1)
	p1 := d.at(r)
	p2 := d.at(r + 1)
	p3 := d.at(r + 2)
	wet := dsp.Interpolate4Point(p0, p1, p2, p3, frac)

	for _, fx := range d.settings.FeedbackEffects {
		wet = fx.Process(wet, dt, clocks)
	}

	feedback := d.feedback.Value()
	d.buffer[d.writeHead] = input.Add(wet.Scale(feedback))
	d.writeHead = (d.writeHead + 1) % n

	return EqualPowerMix(wet, input, d.mix.Value())
}

func (d *Delay) at(i int) dsp.Frame {
	n := len(d.buffer)
	i = ((i % n) + n) % n
	return d.buffer[i]
}
