package track

import (
	"sync/atomic"
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/effect"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/queue"
	"github.com/wrenfold/resonance/value"
)

// command is a control-side request to change a track's own volume or
// panning, applied at the start of the next block it is processed in --
// the same pattern used by Clock, Parameter, and Sound to keep the
// renderer's per-sample state free of concurrent writers.
type command struct {
	setVolume  *value.Value[float64]
	setPanning *value.Value[float64]
}

// Shared is the removal flag a control-side handle sets once it drops its
// last reference; the mixer drains tracks marked for removal between
// blocks via arena.DrainFilter, exactly like sounds. Written from the
// control side and read from the render thread, so it is an atomic.Bool.
type Shared struct {
	markedForRemoval atomic.Bool
}

// MarkForRemoval flags the track as no longer referenced by any handle.
func (s *Shared) MarkForRemoval() {
	s.markedForRemoval.Store(true)
}

// MarkedForRemoval reports whether the track has been flagged for removal.
func (s *Shared) MarkedForRemoval() bool {
	return s.markedForRemoval.Load()
}

// Route is one edge of the routing graph: a destination track and the
// CachedValue amount applied to the source track's output before it's
// added to the destination's input accumulator.
type Route struct {
	Destination Id
	Amount      *value.CachedValue[float64]
	amountValue value.Value[float64]
}

// Builder collects a track's settings before construction. NewBuilder
// returns one with volume 1.0, panning 0.5 (center), no routes and no
// effects; the zero value has volume 0 and panning 0.
type Builder struct {
	volume  value.Value[float64]
	panning value.Value[float64]
	routes  []routeSpec
	effects []effect.Effect
}

type routeSpec struct {
	destination Id
	amount      value.Value[float64]
}

// NewBuilder returns a Builder defaulted to volume 1.0, panning 0.5 (dead
// center), no routes, no effects.
func NewBuilder() *Builder {
	return &Builder{
		volume:  value.FixedFloat64(1.0),
		panning: value.FixedFloat64(0.5),
	}
}

// Volume sets the track's volume.
func (b *Builder) Volume(v value.Value[float64]) *Builder {
	b.volume = v
	return b
}

// Panning sets the track's panning, 0.0 (left) to 1.0 (right).
func (b *Builder) Panning(v value.Value[float64]) *Builder {
	b.panning = v
	return b
}

// Route adds an output route to destination with the given amount.
// Destination must already exist (have been created strictly earlier) —
// the mixer enforces this at AddSubTrack time, since a Builder alone
// cannot see the registry.
func (b *Builder) Route(destination Id, amount value.Value[float64]) *Builder {
	b.routes = append(b.routes, routeSpec{destination: destination, amount: amount})
	return b
}

// RouteDestinations returns every destination this builder's routes
// target, so a caller constructing a sub-track can validate them against
// its own registry before the builder is handed off for insertion.
func (b *Builder) RouteDestinations() []Id {
	destinations := make([]Id, len(b.routes))
	for i, r := range b.routes {
		destinations[i] = r.destination
	}
	return destinations
}

// AddEffect appends an effect to the end of the track's chain.
func (b *Builder) AddEffect(e effect.Effect) *Builder {
	b.effects = append(b.effects, e)
	return b
}

// Track is one node of the mixer graph: its own volume/panning, an
// effect chain, and a set of output routes. The main track is built with
// NewMain; sub-tracks are built by the mixer from a Builder.
type Track struct {
	Shared Shared

	volumeV  value.Value[float64]
	panningV value.Value[float64]
	volume   *value.CachedValue[float64]
	panning  *value.CachedValue[float64]

	routes  []Route
	effects []effect.Effect

	inputAccumulator dsp.Frame

	commands *queue.Queue[command]
}

// defaultCommandQueueDepth is used by NewMain, which has no Builder to
// carry a queue depth setting; sub-tracks get the depth the caller passes
// to New.
const defaultCommandQueueDepth = 16

// NewMain constructs the implicit main track: volume 1.0, panning 0.5,
// no routes (it is the sink), no effects.
func NewMain(params *parameter.Parameters) *Track {
	t := &Track{
		volumeV:  value.FixedFloat64(1.0),
		panningV: value.FixedFloat64(0.5),
		commands: queue.New[command](defaultCommandQueueDepth),
	}
	t.volume = value.NewCachedValue(t.volumeV, params)
	t.panning = value.NewCachedValue(t.panningV, params)
	return t
}

// New constructs a sub-track from a Builder, initializing every effect
// with sampleRate.
func New(b *Builder, sampleRate float64, params *parameter.Parameters, commandQueueCapacity int) *Track {
	t := &Track{
		volumeV:  b.volume,
		panningV: b.panning,
		effects:  b.effects,
		commands: queue.New[command](commandQueueCapacity),
	}
	t.volume = value.NewCachedValue(t.volumeV, params)
	t.panning = value.NewCachedValue(t.panningV, params)
	for _, spec := range b.routes {
		t.routes = append(t.routes, Route{
			Destination: spec.destination,
			amountValue: spec.amount,
			Amount:      value.NewCachedValue(spec.amount, params),
		})
	}
	for _, fx := range t.effects {
		fx.Init(sampleRate)
	}
	return t
}

// SetVolume enqueues a replacement for the track's volume setting, applied
// at the next OnStartProcessing. Never blocks; a full queue returns
// queue.ErrFull.
func (t *Track) SetVolume(v value.Value[float64]) error {
	return t.commands.Push(command{setVolume: &v})
}

// SetPanning enqueues a replacement for the track's panning setting,
// applied at the next OnStartProcessing.
func (t *Track) SetPanning(v value.Value[float64]) error {
	return t.commands.Push(command{setPanning: &v})
}

// AddInput accumulates a frame into this track's input for the current
// sample; the mixer calls this once per contributing sound and once per
// incoming route.
func (t *Track) AddInput(f dsp.Frame) {
	t.inputAccumulator = t.inputAccumulator.Add(f)
}

// OnStartProcessing drains pending volume/panning changes, then forwards
// to every effect in the chain, once per block.
func (t *Track) OnStartProcessing(params *parameter.Parameters) {
	t.commands.Drain(func(cmd command) {
		if cmd.setVolume != nil {
			t.volumeV = *cmd.setVolume
		}
		if cmd.setPanning != nil {
			t.panningV = *cmd.setPanning
		}
	})
	for _, fx := range t.effects {
		fx.OnStartProcessing(params)
	}
}

// Routes returns the track's output routes, for the mixer to distribute
// this track's processed output across.
func (t *Track) Routes() []Route {
	return t.routes
}

// Process runs this track's per-sample pipeline: refresh volume/panning/
// route amounts, drain the input accumulator, chain effects, apply
// volume then panning, and return the result.
func (t *Track) Process(dt time.Duration, clocks *clock.Clocks, params *parameter.Parameters) dsp.Frame {
	t.volume.Set(t.volumeV, params)
	t.panning.Set(t.panningV, params)
	for i := range t.routes {
		t.routes[i].Amount.Set(t.routes[i].amountValue, params)
	}

	output := t.inputAccumulator
	t.inputAccumulator = dsp.Silence

	for _, fx := range t.effects {
		output = fx.Process(output, dt, clocks)
	}

	output = output.Scale(t.volume.Value())
	output = output.Panned(t.panning.Value())
	return output
}
