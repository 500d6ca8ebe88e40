// Package sound defines the uniform source contract every playable sound
// implements, and the playback state machine shared by static and
// streaming sounds.
package sound

import (
	"sync/atomic"
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/track"
)

// Sound is a polymorphic frame source bound to exactly one track at
// creation.
type Sound interface {
	Track() track.Id
	OnStartProcessing(params *parameter.Parameters)
	Process(dt time.Duration, clocks *clock.Clocks, params *parameter.Parameters) dsp.Frame
	Finished() bool
	// MarkedForRemoval reports whether the handle that owns this sound has
	// released it -- the renderer only evicts a finished sound once both
	// Finished() and MarkedForRemoval() are true.
	MarkedForRemoval() bool
}

// PlaybackState is the sound lifecycle: Playing and Paused are mutually
// reachable from each other; either transitions to Stopping, which is
// terminal once the fade-out tween completes and the state becomes
// Stopped.
type PlaybackState int

const (
	Playing PlaybackState = iota
	Paused
	Stopping
	Stopped
)

// Shared is the removal flag a handle sets when it releases the sound; the
// renderer evicts a sound once it is both flagged and Finished. The flag
// is written from the
// control-side handle and read from the render thread every block, so it
// is an atomic.Bool rather than a plain bool.
type Shared struct {
	markedForRemoval atomic.Bool
}

// MarkForRemoval flags the sound as no longer referenced by any handle.
func (s *Shared) MarkForRemoval() {
	s.markedForRemoval.Store(true)
}

// MarkedForRemoval reports whether the sound has been flagged for removal.
func (s *Shared) MarkedForRemoval() bool {
	return s.markedForRemoval.Load()
}
