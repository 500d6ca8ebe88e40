// Package mixer holds the mixer graph: the main track plus every live
// sub-track, and drives the per-sample processing order the rest of the
// engine's realtime guarantees depend on.
package mixer

import (
	"fmt"
	"time"

	"github.com/wrenfold/resonance/arena"
	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/track"
)

// ErrUnknownDestination is returned by AddSubTrack when a route targets a
// track id that does not exist yet; a sub-track may only route to the
// main track or to a sub-track created strictly before it, which rules
// out routing cycles by construction.
var ErrUnknownDestination = fmt.Errorf("mixer: route destination does not exist")

// Mixer owns the main track and the registry of every live sub-track, in
// insertion order.
type Mixer struct {
	main              *track.Track
	subTracks         *arena.Arena[*track.Track]
	insertOrder       []arena.Key
	sampleRate        float64
	params            *parameter.Parameters
	commandQueueDepth int
}

// New creates a Mixer with room for capacity sub-tracks. commandQueueDepth
// sizes every sub-track's own volume/panning command queue.
func New(capacity int, sampleRate float64, params *parameter.Parameters, commandQueueDepth int) *Mixer {
	return &Mixer{
		main:              track.NewMain(params),
		subTracks:         arena.New[*track.Track](capacity),
		sampleRate:        sampleRate,
		params:            params,
		commandQueueDepth: commandQueueDepth,
	}
}

// Main returns the implicit main track.
func (m *Mixer) Main() *track.Track {
	return m.main
}

// Controller returns the sub-track arena's controller, for reserving keys
// on the control side.
func (m *Mixer) Controller() arena.Controller[*track.Track] {
	return m.subTracks.Controller()
}

// AddSubTrack builds a sub-track from b and inserts it at a previously
// reserved key. Every route in b must target the main track or a
// sub-track that already exists in the registry at this point; that rule
// is what makes routing cycles structurally impossible.
func (m *Mixer) AddSubTrack(key arena.Key, b *track.Builder) error {
	t := track.New(b, m.sampleRate, m.params, m.commandQueueDepth)
	for _, route := range t.Routes() {
		if route.Destination.IsMain() {
			continue
		}
		if _, ok := m.subTracks.Get(route.Destination.Key()); !ok {
			return ErrUnknownDestination
		}
	}
	m.subTracks.InsertWithKey(key, t)
	m.insertOrder = append(m.insertOrder, key)
	return nil
}

// Get returns the sub-track at key, if still live.
func (m *Mixer) Get(key arena.Key) (*track.Track, bool) {
	return m.subTracks.Get(key)
}

// AddInput routes a frame produced by a sound into the accumulator of the
// track it is bound to.
func (m *Mixer) AddInput(id track.Id, f dsp.Frame) {
	if id.IsMain() {
		m.main.AddInput(f)
		return
	}
	if t, ok := m.subTracks.Get(id.Key()); ok {
		t.AddInput(f)
	}
}

// OnStartProcessing forwards to the main track and every sub-track's
// effect chain.
func (m *Mixer) OnStartProcessing() {
	m.main.OnStartProcessing(m.params)
	m.subTracks.ForEach(func(_ arena.Key, t **track.Track) {
		(*t).OnStartProcessing(m.params)
	})
}

// RemoveFinished evicts every sub-track whose Shared flag has been marked
// for removal.
func (m *Mixer) RemoveFinished() {
	m.subTracks.DrainFilter(func(_ arena.Key, t **track.Track) bool {
		return !(*t).Shared.MarkedForRemoval()
	})
	live := m.insertOrder[:0]
	for _, key := range m.insertOrder {
		if _, ok := m.subTracks.Get(key); ok {
			live = append(live, key)
		}
	}
	m.insertOrder = live
}

// Process runs one sample through the whole graph: sub-tracks in reverse
// insertion order (so a later-added sub-track's route to an earlier one
// resolves within this same sample), distributing each processed
// sub-track's output across its routes, then the main track last. The
// main track's returned frame is the engine's output for this sample.
func (m *Mixer) Process(dt time.Duration, clocks *clock.Clocks) dsp.Frame {
	for i := len(m.insertOrder) - 1; i >= 0; i-- {
		key := m.insertOrder[i]
		t, ok := m.subTracks.Get(key)
		if !ok {
			continue
		}
		output := t.Process(dt, clocks, m.params)
		for _, route := range t.Routes() {
			amount := route.Amount.Value()
			m.AddInput(route.Destination, output.Scale(amount))
		}
	}
	return m.main.Process(dt, clocks, m.params)
}
