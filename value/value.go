package value

import "github.com/wrenfold/resonance/parameter"

// Value is either a fixed T or bound to a shared parameter's value through
// a Mapping. T is almost always float64 or PlaybackRate; the fromFloat
// function given to Bound lets CachedValue resolve a bound value
// generically without needing T itself to be numeric.
type Value[T any] struct {
	fixed   T
	isBound bool
	param   parameter.Id
	mapping Mapping
	fromF64 func(float64) T
}

// Fixed returns a Value holding a constant T.
func Fixed[T any](v T) Value[T] {
	return Value[T]{fixed: v}
}

// Bound returns a Value bound to a parameter's value through mapping.
// fromFloat converts the mapped float64 into T (identity for Value[float64]).
func Bound[T any](id parameter.Id, mapping Mapping, fromFloat func(float64) T) Value[T] {
	return Value[T]{isBound: true, param: id, mapping: mapping, fromF64: fromFloat}
}

// FixedFloat64 returns Value[float64] holding a constant.
func FixedFloat64(v float64) Value[float64] {
	return Fixed(v)
}

// BoundFloat64 returns a Value[float64] bound to a parameter.
func BoundFloat64(id parameter.Id, mapping Mapping) Value[float64] {
	return Bound(id, mapping, func(f float64) float64 { return f })
}

// resolve returns (value, found). found is false only when the value is
// bound and the referenced parameter no longer exists.
func (v Value[T]) resolve(params *parameter.Parameters) (T, bool) {
	if !v.isBound {
		return v.fixed, true
	}
	raw, ok := params.Value(v.param)
	if !ok {
		var zero T
		return zero, false
	}
	return v.fromF64(v.mapping.Apply(raw)), true
}
