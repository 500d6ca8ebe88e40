package tween

import "math"

// Easing shapes how a tween moves from 0.0 to 1.0 over its duration.
type Easing interface {
	// Apply maps a linear progress value in [0, 1] to an eased progress
	// value, also in [0, 1].
	Apply(t float64) float64
}

// Linear leaves progress unmodified.
type Linear struct{}

// Apply implements Easing.
func (Linear) Apply(t float64) float64 { return t }

// PowIn accelerates into the tween: progress starts slow and ramps up.
// Power must be greater than 0; 1.0 reduces to Linear, 2.0 is a quadratic
// ease-in, and so on.
type PowIn struct {
	Power float64
}

// Apply implements Easing.
func (e PowIn) Apply(t float64) float64 {
	return math.Pow(t, e.Power)
}

// PowOut decelerates out of the tween: progress starts fast and eases into
// the target.
type PowOut struct {
	Power float64
}

// Apply implements Easing.
func (e PowOut) Apply(t float64) float64 {
	return 1 - math.Pow(1-t, e.Power)
}
