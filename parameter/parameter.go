// Package parameter implements the shared, command-driven value resource
// that track settings, effect settings, and sounds can bind to. A
// Parameter is itself just a tweened float64, but unlike a track's own
// CachedValue-backed settings it lives in a registry with a stable Id so
// many things can reference the same value.
package parameter

import (
	"sync/atomic"
	"time"

	"github.com/wrenfold/resonance/arena"
	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/queue"
	"github.com/wrenfold/resonance/tween"
)

// Id identifies a Parameter within a Parameters registry.
type Id arena.Key

// Command is a control-side request applied at the start of the next block
// processed.
type Command struct {
	Set struct {
		Target float64
		Tween  tween.Tween
	}
}

// SetCommand builds a Command that starts a tween toward target.
func SetCommand(target float64, tw tween.Tween) Command {
	var c Command
	c.Set.Target = target
	c.Set.Tween = tw
	return c
}

// Parameter is the renderer-side resource: a tweened float64 with its own
// bounded command queue and an atomic mirror so the control side can read
// its current value without touching the renderer's memory.
type Parameter struct {
	tweenable *tween.Tweenable[float64]
	commands  *queue.Queue[Command]
	mirror    atomic.Uint64 // math.Float64bits of the current value
}

// New creates a Parameter starting at initial.
func New(initial float64, commandQueueCapacity int) *Parameter {
	p := &Parameter{
		tweenable: tween.NewTweenable(initial, tween.LerpFloat64),
		commands:  queue.New[Command](commandQueueCapacity),
	}
	p.storeMirror(initial)
	return p
}

// PushCommand enqueues a control-side command, never blocking.
func (p *Parameter) PushCommand(cmd Command) error {
	return p.commands.Push(cmd)
}

// OnStartProcessing drains pending commands once per block and refreshes
// the atomic mirror.
func (p *Parameter) OnStartProcessing() {
	p.commands.Drain(func(cmd Command) {
		p.tweenable.StartTween(cmd.Set.Target, cmd.Set.Tween)
	})
	p.storeMirror(p.tweenable.Value())
}

// Update advances the parameter's tween by dt.
func (p *Parameter) Update(dt time.Duration, clocks *clock.Clocks) {
	if p.tweenable.Update(dt, clocks) {
		p.storeMirror(p.tweenable.Value())
	} else if p.tweenable.Tweening() {
		p.storeMirror(p.tweenable.Value())
	}
}

// Value returns the parameter's current value as seen by the renderer.
func (p *Parameter) Value() float64 {
	return p.tweenable.Value()
}

func (p *Parameter) storeMirror(v float64) {
	p.mirror.Store(floatBits(v))
}

// MirrorValue reads the parameter's value through the atomic mirror. Safe
// to call from the control side (e.g. a Handle) without any lock.
func (p *Parameter) MirrorValue() float64 {
	return bitsToFloat(p.mirror.Load())
}
