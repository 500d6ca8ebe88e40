package effect

import (
	"math"
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/value"
)

// DistortionKind selects the clipping curve a Distortion effect applies.
type DistortionKind int

const (
	HardClip DistortionKind = iota
	SoftClip
)

// DistortionSettings configures a Distortion effect at construction time.
type DistortionSettings struct {
	Kind  DistortionKind
	Drive value.Value[float64]
	Mix   value.Value[float64]
}

// DefaultDistortionSettings returns unity drive, hard clipping, fully wet.
func DefaultDistortionSettings() DistortionSettings {
	return DistortionSettings{
		Kind:  HardClip,
		Drive: value.FixedFloat64(1.0),
		Mix:   value.FixedFloat64(1.0),
	}
}

// DistortionHandle is the control-side reference to a live Distortion.
type DistortionHandle struct {
	setDrive func(value.Value[float64])
	setMix   func(value.Value[float64])
}

// SetDrive replaces the drive setting.
func (h DistortionHandle) SetDrive(v value.Value[float64]) { h.setDrive(v) }

// SetMix replaces the wet/dry mix setting.
func (h DistortionHandle) SetMix(v value.Value[float64]) { h.setMix(v) }

// Distortion clips its input according to Kind, normalizing the level back
// down by Drive before the wet/dry mix.
type Distortion struct {
	settings DistortionSettings
	drive    *value.CachedValue[float64]
	mix      *value.CachedValue[float64]
}

// NewDistortion constructs a Distortion and its handle from settings.
func NewDistortion(settings DistortionSettings, params *parameter.Parameters) (*Distortion, DistortionHandle) {
	d := &Distortion{
		settings: settings,
		drive:    value.NewCachedValue(settings.Drive, params),
		mix:      value.NewCachedValue(settings.Mix, params),
	}
	handle := DistortionHandle{
		setDrive: func(v value.Value[float64]) { d.settings.Drive = v },
		setMix:   func(v value.Value[float64]) { d.settings.Mix = v },
	}
	return d, handle
}

// Init is a no-op: Distortion holds no sample-rate-dependent state.
func (d *Distortion) Init(sampleRate float64) {}

// OnStartProcessing refreshes drive and mix against current parameters.
func (d *Distortion) OnStartProcessing(params *parameter.Parameters) {
	d.drive.Set(d.settings.Drive, params)
	d.mix.Set(d.settings.Mix, params)
}

// Process applies the configured clipping curve, scaled by drive and
// normalized back down, then wet/dry mixes with the input.
func (d *Distortion) Process(input dsp.Frame, dt time.Duration, clocks *clock.Clocks) dsp.Frame {
	drive := d.drive.Value()
	driven := input.Scale(drive)

	var clipped dsp.Frame
	switch d.settings.Kind {
	case SoftClip:
		clipped = dsp.Frame{Left: softClip(driven.Left), Right: softClip(driven.Right)}
	default:
		clipped = dsp.Frame{Left: hardClip(driven.Left), Right: hardClip(driven.Right)}
	}

	normalized := clipped
	if drive != 0 {
		normalized = clipped.Scale(1.0 / drive)
	}

	return EqualPowerMix(normalized, input, d.mix.Value())
}

func hardClip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func softClip(x float64) float64 {
	return x / (1 + math.Abs(x))
}
