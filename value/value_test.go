package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenfold/resonance/parameter"
)

func TestMappingAppliesLinearScaleAndClamp(t *testing.T) {
	m := Mapping{
		InputStart: 0, InputEnd: 1,
		OutputStart: -10, OutputEnd: 10,
		ClampBottom: true, ClampTop: true,
	}
	assert.InDelta(t, 0.0, m.Apply(0.5), 1e-9)
	assert.InDelta(t, -10.0, m.Apply(-1.0), 1e-9)
	assert.InDelta(t, 10.0, m.Apply(2.0), 1e-9)
}

func TestMappingWithoutClampExtrapolates(t *testing.T) {
	m := Mapping{InputStart: 0, InputEnd: 1, OutputStart: 0, OutputEnd: 10}
	assert.InDelta(t, 20.0, m.Apply(2.0), 1e-9)
}

func TestCachedValueFreezesWhenParameterRemoved(t *testing.T) {
	params := parameter.NewRegistry(4)
	ctrl := params.Controller()
	key, err := ctrl.Reserve()
	require.NoError(t, err)
	p := parameter.New(5.0, 4)
	params.Insert(key, p)
	id := parameter.Id(key)

	v := BoundFloat64(id, IdentityMapping())
	cv := NewCachedValue(v, params)
	assert.InDelta(t, 5.0, cv.Value(), 1e-9)

	params.Remove(id)
	cv.Update(params)
	assert.InDelta(t, 5.0, cv.Value(), 1e-9, "a vanished bound parameter must freeze at the last resolved value")
}

func TestCachedValueTracksFixed(t *testing.T) {
	params := parameter.NewRegistry(1)
	cv := NewCachedValue(FixedFloat64(3.0), params)
	assert.Equal(t, 3.0, cv.Value())

	cv.Set(FixedFloat64(7.0), params)
	assert.Equal(t, 7.0, cv.Value())
}

func TestPlaybackRateFactorSemitoneRoundTrip(t *testing.T) {
	p := Semitones(7.0)
	assert.InDelta(t, 7.0, p.AsSemitones(), 1e-9)

	factor := math.Pow(2, 7.0/12.0)
	assert.InDelta(t, factor, p.AsFactor(), 1e-12)

	back := Factor(p.AsFactor())
	assert.InDelta(t, p.AsSemitones(), back.AsSemitones(), 1e-9)
}

func TestLerpPlaybackRateInterpolatesInFactorSpace(t *testing.T) {
	a := Factor(1.0)
	b := Factor(2.0)
	mid := LerpPlaybackRate(a, b, 0.5)
	assert.InDelta(t, 1.5, mid.AsFactor(), 1e-12)
}
