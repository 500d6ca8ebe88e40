package tween

import (
	"time"

	"github.com/wrenfold/resonance/clock"
)

// StartTime controls when a Tween begins moving. Immediate means "as soon
// as the tween is applied"; ClockTime gates the start on a specific tick of
// a specific clock, letting two tweens on different parameters start in
// perfect sync even though they were pushed to the renderer on different
// blocks.
type StartTime struct {
	Immediate bool
	Clock     clock.Time
}

// Now is the zero-delay start time.
func Now() StartTime {
	return StartTime{Immediate: true}
}

// At gates the tween's start on the given clock tick.
func At(t clock.Time) StartTime {
	return StartTime{Clock: t}
}

// Tween describes a single animation: how long it takes, what shape it
// follows, and when it begins.
type Tween struct {
	Duration time.Duration
	Easing   Easing
	Start    StartTime
}

// Default returns a Tween with a zero-second duration, Linear easing, and
// an immediate start -- equivalent to an instantaneous set.
func Default() Tween {
	return Tween{Duration: 0, Easing: Linear{}, Start: Now()}
}
