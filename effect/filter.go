package effect

import (
	"math"
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/value"
)

// FilterMode selects which output tap of the state-variable topology a
// Filter effect exposes.
type FilterMode int

const (
	LowPass FilterMode = iota
	BandPass
	HighPass
	Notch
)

// FilterSettings configures a Filter effect at construction time.
type FilterSettings struct {
	Mode       FilterMode
	Cutoff     value.Value[float64]
	Resonance  value.Value[float64]
	Mix        value.Value[float64]
}

// DefaultFilterSettings returns a wide-open low-pass, fully wet.
func DefaultFilterSettings() FilterSettings {
	return FilterSettings{
		Mode:      LowPass,
		Cutoff:    value.FixedFloat64(20000.0),
		Resonance: value.FixedFloat64(0.0),
		Mix:       value.FixedFloat64(1.0),
	}
}

// FilterHandle is the control-side reference to a live Filter.
type FilterHandle struct {
	setCutoff    func(value.Value[float64])
	setResonance func(value.Value[float64])
	setMix       func(value.Value[float64])
}

// SetCutoff replaces the cutoff frequency setting, in Hz.
func (h FilterHandle) SetCutoff(v value.Value[float64]) { h.setCutoff(v) }

// SetResonance replaces the resonance setting, in [0, 1].
func (h FilterHandle) SetResonance(v value.Value[float64]) { h.setResonance(v) }

// SetMix replaces the wet/dry mix setting.
func (h FilterHandle) SetMix(v value.Value[float64]) { h.setMix(v) }

// Filter is a two-pole state-variable filter (Simper topology), tracking
// independent state per stereo channel.
type Filter struct {
	settings   FilterSettings
	sampleRate float64

	cutoff    *value.CachedValue[float64]
	resonance *value.CachedValue[float64]
	mix       *value.CachedValue[float64]

	ic1eqL, ic2eqL float64
	ic1eqR, ic2eqR float64
}

// NewFilter constructs a Filter and its handle from settings.
func NewFilter(settings FilterSettings, params *parameter.Parameters) (*Filter, FilterHandle) {
	f := &Filter{
		settings:  settings,
		cutoff:    value.NewCachedValue(settings.Cutoff, params),
		resonance: value.NewCachedValue(settings.Resonance, params),
		mix:       value.NewCachedValue(settings.Mix, params),
	}
	handle := FilterHandle{
		setCutoff:    func(v value.Value[float64]) { f.settings.Cutoff = v },
		setResonance: func(v value.Value[float64]) { f.settings.Resonance = v },
		setMix:       func(v value.Value[float64]) { f.settings.Mix = v },
	}
	return f, handle
}

// Init records the sample rate the cutoff coefficient is computed against.
func (f *Filter) Init(sampleRate float64) {
	f.sampleRate = sampleRate
}

// OnStartProcessing refreshes cutoff, resonance, and mix against current
// parameters.
func (f *Filter) OnStartProcessing(params *parameter.Parameters) {
	f.cutoff.Set(f.settings.Cutoff, params)
	f.resonance.Set(f.settings.Resonance, params)
	f.mix.Set(f.settings.Mix, params)
}

// Process runs one sample through the state-variable filter core,
// independently for each channel, and returns the wet/dry mixed output.
func (f *Filter) Process(input dsp.Frame, dt time.Duration, clocks *clock.Clocks) dsp.Frame {
	cutoff := f.cutoff.Value()
	resonance := clampUnit(f.resonance.Value())

	g := math.Tan(math.Pi * cutoff / f.sampleRate)
	k := 2 - 1.9*resonance
	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	left := f.tick(input.Left, a1, a2, a3, k, &f.ic1eqL, &f.ic2eqL)
	right := f.tick(input.Right, a1, a2, a3, k, &f.ic1eqR, &f.ic2eqR)
	wet := dsp.Frame{Left: left, Right: right}

	return EqualPowerMix(wet, input, f.mix.Value())
}

func (f *Filter) tick(in, a1, a2, a3, k float64, ic1eq, ic2eq *float64) float64 {
	v3 := in - *ic2eq
	v1 := *ic1eq*a1 + v3*a2
	v2 := *ic2eq + *ic1eq*a2 + v3*a3
	*ic1eq = 2*v1 - *ic1eq
	*ic2eq = 2*v2 - *ic2eq

	switch f.settings.Mode {
	case BandPass:
		return v1
	case HighPass:
		return in - v1*k - v2
	case Notch:
		return in - v1*k
	default:
		return v2
	}
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
