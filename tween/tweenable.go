package tween

import (
	"time"

	"github.com/wrenfold/resonance/clock"
)

// Lerp linearly interpolates between a and b at amount, where amount runs
// from 0.0 (a) to 1.0 (b). Each Tweenable is given one of these at
// construction, since Go generics have no numeric-interpolation
// constraint general enough to cover float64, PlaybackRate, and similar
// small value types uniformly.
type Lerp[T any] func(a, b T, amount float64) T

// Tweenable holds a value of type T that can either sit idle or move
// smoothly toward a target over time. It is the renderer-side state
// machine backing parameters and the sounds' internal fade; track and
// effect settings are CachedValues that follow parameters instead.
type Tweenable[T any] struct {
	current T
	lerp    Lerp[T]

	tweening       bool
	waitingToStart bool
	from, to       T
	elapsed        time.Duration
	active       Tween
}

// NewTweenable creates a Tweenable sitting idle at initial.
func NewTweenable[T any](initial T, lerp Lerp[T]) *Tweenable[T] {
	return &Tweenable[T]{current: initial, lerp: lerp}
}

// Value returns the tweenable's current value.
func (t *Tweenable[T]) Value() T {
	return t.current
}

// Set immediately jumps to value, canceling any tween in progress.
func (t *Tweenable[T]) Set(value T) {
	t.current = value
	t.tweening = false
	t.waitingToStart = false
}

// StartTween begins animating from the current value to target following
// tw. If tw.Start is clock-gated, the tween enters a "waiting to start"
// state and does not advance until that clock tick occurs.
func (t *Tweenable[T]) StartTween(target T, tw Tween) {
	t.from = t.current
	t.to = target
	t.elapsed = 0
	t.active = tw
	t.tweening = true
	t.waitingToStart = !tw.Start.Immediate
}

// Tweening reports whether a tween is currently in progress (including one
// still waiting on a clock gate).
func (t *Tweenable[T]) Tweening() bool {
	return t.tweening
}

// Update advances any in-progress tween by dt, consulting clocks to resolve
// a clock-gated start time. It returns true exactly once, on the update
// that causes the tween to reach its target.
func (t *Tweenable[T]) Update(dt time.Duration, clocks *clock.Clocks) (justFinished bool) {
	if !t.tweening {
		return false
	}

	if t.waitingToStart {
		if !clocks.HasTicked(t.active.Start.Clock) {
			return false
		}
		t.waitingToStart = false
	}

	if t.active.Duration <= 0 {
		t.current = t.to
		t.tweening = false
		return true
	}

	t.elapsed += dt
	progress := float64(t.elapsed) / float64(t.active.Duration)
	if progress >= 1.0 {
		t.current = t.to
		t.tweening = false
		return true
	}

	eased := t.active.Easing.Apply(progress)
	t.current = t.lerp(t.from, t.to, eased)
	return false
}

// LerpFloat64 is the Lerp implementation for plain float64 values, used by
// Parameter and every CachedValue[float64]-backed setting.
func LerpFloat64(a, b float64, amount float64) float64 {
	return a + (b-a)*amount
}
