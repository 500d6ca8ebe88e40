// Package resonance is the engine's public facade: Renderer is the single
// object the backend calls into once per block and once per sample, and
// Manager ties settings to a concrete Backend and is the control-side
// handle construction API every caller actually uses.
package resonance

import (
	"sync/atomic"
	"time"

	"github.com/wrenfold/resonance/arena"
	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/mixer"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/queue"
	"github.com/wrenfold/resonance/sound"
	"github.com/wrenfold/resonance/track"
)

// pendingSound is a fully-constructed sound plus the key it should be
// inserted at, queued by the control side and materialized into the
// renderer's arena during the next OnStartProcessing.
type pendingSound struct {
	key   arena.Key
	sound sound.Sound
}

// pendingClock, pendingParameter, and pendingSubTrack mirror pendingSound
// for the other three resources Manager can construct: every arena write
// happens on the renderer thread only, during OnStartProcessing, so the
// arenas themselves never need more than the free-list mutex they already
// carry.
type pendingClock struct {
	key   arena.Key
	clock *clock.Clock
}

type pendingParameter struct {
	key   arena.Key
	param *parameter.Parameter
}

type pendingSubTrack struct {
	key     arena.Key
	builder *track.Builder
	result  chan error
}

// Renderer is the realtime core: everything reachable from Process must
// never allocate, block, or wait on a lock. It implements backend.Renderer.
type Renderer struct {
	sampleRate float64
	dt         time.Duration

	clocks     *clock.Clocks
	parameters *parameter.Parameters
	mixer      *mixer.Mixer
	sounds     *arena.Arena[sound.Sound]

	pendingSounds    *queue.Queue[pendingSound]
	pendingClocks    *queue.Queue[pendingClock]
	pendingParams    *queue.Queue[pendingParameter]
	pendingSubTracks *queue.Queue[pendingSubTrack]
	removedSounds    *queue.Queue[sound.Sound]

	pendingSoundQueueFullCount atomic.Uint64

	// liveUnderrunCount and removedUnderrunCount together let the control
	// side read a total streaming-underrun count without ever touching the
	// sounds arena itself. liveUnderrunCount is overwritten each block with
	// the current sum across live sounds (renderer thread only);
	// removedUnderrunCount accumulates the final count of each sound as it
	// is evicted, so removal never loses underruns already counted.
	liveUnderrunCount    atomic.Uint64
	removedUnderrunCount atomic.Uint64
}

// underrunReporter is implemented by sound types that track decoder
// underruns -- currently only streaming.Sound. Checked with a type
// assertion rather than added to sound.Sound itself, since most sound
// kinds (static.Sound) have no notion of an underrun.
type underrunReporter interface {
	UnderrunCount() uint64
}

// OnStartProcessing implements backend.Renderer. Order matches the
// engine-wide contract: materialize newly constructed resources, drain
// every resource's own command queue, then evict anything marked for
// removal.
func (r *Renderer) OnStartProcessing() {
	r.pendingClocks.Drain(func(p pendingClock) {
		r.clocks.Insert(p.key, p.clock)
	})
	r.pendingParams.Drain(func(p pendingParameter) {
		r.parameters.Insert(p.key, p.param)
	})
	r.pendingSubTracks.Drain(func(p pendingSubTrack) {
		err := r.mixer.AddSubTrack(p.key, p.builder)
		if p.result != nil {
			p.result <- err
		}
	})
	r.pendingSounds.Drain(func(p pendingSound) {
		r.sounds.InsertWithKey(p.key, p.sound)
	})

	r.clocks.OnStartProcessing()
	r.parameters.OnStartProcessing()
	r.mixer.OnStartProcessing()
	r.sounds.ForEach(func(_ arena.Key, s *sound.Sound) {
		(*s).OnStartProcessing(r.parameters)
	})

	r.sounds.DrainFilter(func(_ arena.Key, s *sound.Sound) bool {
		if (*s).Finished() && (*s).MarkedForRemoval() {
			if reporter, ok := (*s).(underrunReporter); ok {
				r.removedUnderrunCount.Add(reporter.UnderrunCount())
			}
			r.removedSounds.Push(*s) // best effort; sized >= sound arena capacity
			return false
		}
		return true
	})
	r.mixer.RemoveFinished()

	var liveUnderruns uint64
	r.sounds.ForEach(func(_ arena.Key, s *sound.Sound) {
		if reporter, ok := (*s).(underrunReporter); ok {
			liveUnderruns += reporter.UnderrunCount()
		}
	})
	r.liveUnderrunCount.Store(liveUnderruns)
}

// Process implements backend.Renderer: advances clocks and parameters by
// one sample, runs the mixer graph, and runs every live sound into its
// bound track before the mixer consumes it. Sounds must be processed
// ahead of the mixer's own per-sample pass, so their output lands in the
// correct track's input accumulator before that track is processed.
func (r *Renderer) Process() (left, right float64) {
	r.clocks.Update(r.dt)
	r.parameters.Update(r.dt, r.clocks)

	r.sounds.ForEach(func(_ arena.Key, s *sound.Sound) {
		frame := (*s).Process(r.dt, r.clocks, r.parameters)
		r.mixer.AddInput((*s).Track(), frame)
	})

	frame := r.mixer.Process(r.dt, r.clocks)
	return frame.Left, frame.Right
}

// QueueFullCount returns how many times a newly constructed sound
// couldn't be enqueued because the pending-insert queue was full. Read
// from the control side for telemetry.
func (r *Renderer) QueueFullCount() uint64 {
	return r.pendingSoundQueueFullCount.Load()
}

// UnderrunCount returns the total number of streaming-decoder underruns
// across every sound the renderer has ever held, live or since removed.
// Read from the control side for telemetry.
func (r *Renderer) UnderrunCount() uint64 {
	return r.liveUnderrunCount.Load() + r.removedUnderrunCount.Load()
}

// DrainRemoved calls fn once for every sound the renderer has evicted from
// its arena since the last call. The control side uses this to free
// resources a removed sound still owns -- a streaming sound's decoder
// goroutine, most notably -- only once it is actually gone from the
// renderer rather than as soon as a handle asks for removal.
func (r *Renderer) DrainRemoved(fn func(sound.Sound)) {
	r.removedSounds.Drain(fn)
}
