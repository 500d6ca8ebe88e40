package resonance

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wrenfold/resonance/arena"
	"github.com/wrenfold/resonance/backend"
	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/config"
	"github.com/wrenfold/resonance/mixer"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/queue"
	"github.com/wrenfold/resonance/sound"
	"github.com/wrenfold/resonance/sound/static"
	"github.com/wrenfold/resonance/sound/streaming"
	"github.com/wrenfold/resonance/telemetry"
	"github.com/wrenfold/resonance/track"
)

// Manager is the control-side facade: every construction call (clocks,
// parameters, sub-tracks, sounds) reserves a key synchronously, then hands
// the constructed value to the renderer through a pending queue so the
// actual arena write happens on the render thread during the next
// OnStartProcessing. Manager itself serializes its own construction calls
// with constructMu so AddSubTrack's route-destination check against
// knownTracks stays consistent with what the renderer will eventually see.
type Manager struct {
	settings config.Settings
	logger   *log.Logger

	clocks     *clock.Clocks
	parameters *parameter.Parameters
	mixer      *mixer.Mixer
	sounds     *arena.Arena[sound.Sound]
	renderer   *Renderer
	backend    backend.Backend
	reporter   *telemetry.Reporter

	constructMu sync.Mutex
	knownTracks map[track.Id]bool

	removalStop chan struct{}
	removalDone chan struct{}
}

// removedSoundPollInterval is how often Manager checks the renderer's
// removedSounds queue to free resources (a streaming sound's decoder
// goroutine) that only the control side can tear down. It is independent
// of TelemetryIntervalS -- a slow telemetry interval shouldn't also delay
// freeing a finished sound's decoder.
const removedSoundPollInterval = 20 * time.Millisecond

// closer is implemented by sound types that own a resource the control
// side must release once the sound is actually evicted -- currently only
// streaming.Sound's decoder goroutine.
type closer interface {
	Close()
}

// New constructs a Manager from settings, wires its Renderer into be, and
// starts periodic telemetry reporting. logger may be nil, in which case
// the package default charmbracelet/log logger is used.
func New(settings config.Settings, be backend.Backend, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = log.Default()
	}

	params := parameter.NewRegistry(settings.ParameterCapacity)
	clocks := clock.NewRegistry(settings.ClockCapacity)
	mx := mixer.New(settings.SubTrackCapacity, settings.SampleRate, params, settings.CommandQueueDepth)
	sounds := arena.New[sound.Sound](settings.SoundCapacity)

	r := &Renderer{
		sampleRate: settings.SampleRate,
		dt:         time.Duration(float64(time.Second) / settings.SampleRate),

		clocks:     clocks,
		parameters: params,
		mixer:      mx,
		sounds:     sounds,

		pendingSounds:    queue.New[pendingSound](settings.SoundCapacity),
		pendingClocks:    queue.New[pendingClock](settings.ClockCapacity),
		pendingParams:    queue.New[pendingParameter](settings.ParameterCapacity),
		pendingSubTracks: queue.New[pendingSubTrack](settings.SubTrackCapacity),
		removedSounds:    queue.New[sound.Sound](settings.SoundCapacity),
	}

	if err := be.Init(r); err != nil {
		return nil, err
	}

	m := &Manager{
		settings:    settings,
		logger:      logger,
		clocks:      clocks,
		parameters:  params,
		mixer:       mx,
		sounds:      sounds,
		renderer:    r,
		backend:     be,
		knownTracks: map[track.Id]bool{track.Main: true},
	}

	m.reporter = telemetry.NewReporter(telemetry.Counters{
		QueueFullCount: r.QueueFullCount,
		UnderrunCount:  r.UnderrunCount,
	}, time.Duration(settings.TelemetryIntervalS)*time.Second, logger)
	m.reporter.Start()

	m.removalStop = make(chan struct{})
	m.removalDone = make(chan struct{})
	go m.drainRemovedSoundsLoop()

	logger.Info("resonance engine started",
		"sample_rate", settings.SampleRate,
		"frames_per_buffer", settings.FramesPerBuffer,
	)
	return m, nil
}

// drainRemovedSoundsLoop runs on its own goroutine, polling the renderer's
// removedSounds queue and closing anything the renderer can no longer
// reach once it has actually been evicted from the arena.
func (m *Manager) drainRemovedSoundsLoop() {
	defer close(m.removalDone)
	ticker := time.NewTicker(removedSoundPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.removalStop:
			m.drainRemovedSoundsOnce()
			return
		case <-ticker.C:
			m.drainRemovedSoundsOnce()
		}
	}
}

func (m *Manager) drainRemovedSoundsOnce() {
	m.renderer.DrainRemoved(func(s sound.Sound) {
		if c, ok := s.(closer); ok {
			c.Close()
		}
	})
}

// Shutdown stops telemetry reporting, the removed-sound drain loop, and
// the backend device, in that order.
func (m *Manager) Shutdown() error {
	m.reporter.Stop()
	close(m.removalStop)
	<-m.removalDone
	return m.backend.Stop()
}

// AddClock reserves a clock and hands it to the renderer for insertion
// before the next block. intervalSeconds is the starting tick interval; 0
// or negative means the clock never ticks until a positive interval is
// set. Every clock starts paused until it receives a Start command.
func (m *Manager) AddClock(intervalSeconds float64) (clock.Id, error) {
	m.constructMu.Lock()
	defer m.constructMu.Unlock()

	key, err := m.clocks.Controller().Reserve()
	if err != nil {
		return clock.Id{}, err
	}
	c := clock.New(intervalSeconds, m.settings.CommandQueueDepth)
	if err := m.renderer.pendingClocks.Push(pendingClock{key: key, clock: c}); err != nil {
		return clock.Id{}, err
	}
	return clock.Id(key), nil
}

// AddParameter reserves a parameter initialized to initial and hands it to
// the renderer for insertion before the next block, returning a Handle
// callers use to read and tween it.
func (m *Manager) AddParameter(initial float64) (parameter.Handle, error) {
	m.constructMu.Lock()
	defer m.constructMu.Unlock()

	key, err := m.parameters.Controller().Reserve()
	if err != nil {
		return parameter.Handle{}, err
	}
	p := parameter.New(initial, m.settings.CommandQueueDepth)
	if err := m.renderer.pendingParams.Push(pendingParameter{key: key, param: p}); err != nil {
		return parameter.Handle{}, err
	}
	return parameter.NewHandle(parameter.Id(key), p), nil
}

// AddSubTrack reserves a sub-track id and hands the builder to the
// renderer, which runs the same route-destination validation AddSubTrack
// has always run, now on the render thread where the mixer's registry is
// actually mutated. Route destinations are checked synchronously here too
// against Manager's own mirror of constructed track ids, so a caller gets
// ErrUnknownDestination immediately rather than only once the next block
// runs.
func (m *Manager) AddSubTrack(b *track.Builder) (track.Id, error) {
	m.constructMu.Lock()
	defer m.constructMu.Unlock()

	for _, dest := range b.RouteDestinations() {
		if !m.knownTracks[dest] {
			return track.Id{}, mixer.ErrUnknownDestination
		}
	}

	key, err := m.mixer.Controller().Reserve()
	if err != nil {
		return track.Id{}, err
	}
	id := track.SubTrack(key)

	result := make(chan error, 1)
	if err := m.renderer.pendingSubTracks.Push(pendingSubTrack{key: key, builder: b, result: result}); err != nil {
		return track.Id{}, err
	}
	if err := <-result; err != nil {
		return track.Id{}, err
	}
	m.knownTracks[id] = true
	return id, nil
}

// Parameters returns the parameter registry, for constructing effects and
// track settings that need to bind to a Parameter before the track or
// effect itself exists.
func (m *Manager) Parameters() *parameter.Parameters {
	return m.parameters
}

// Track returns the live sub-track at id, for direct inspection; returns
// false once the track has been removed.
func (m *Manager) Track(id track.Id) (*track.Track, bool) {
	if id.IsMain() {
		return m.mixer.Main(), true
	}
	return m.mixer.Get(id.Key())
}

// PlayStatic constructs a static.Sound from data and settings, reserves a
// key for it, and hands it to the renderer for insertion before the next
// block.
func (m *Manager) PlayStatic(data *static.Data, settings static.Settings) (static.Handle, error) {
	m.constructMu.Lock()
	defer m.constructMu.Unlock()

	if !settings.Track.IsMain() && !m.knownTracks[settings.Track] {
		return static.Handle{}, mixer.ErrUnknownDestination
	}

	key, err := m.sounds.Controller().Reserve()
	if err != nil {
		return static.Handle{}, err
	}
	s := static.New(data, settings, m.parameters, m.settings.CommandQueueDepth)
	if err := m.renderer.pendingSounds.Push(pendingSound{key: key, sound: s}); err != nil {
		m.renderer.pendingSoundQueueFullCount.Add(1)
		return static.Handle{}, err
	}
	return static.NewHandle(s), nil
}

// PlayStreaming constructs a streaming.Sound backed by decoder and
// settings, spawning its decode goroutine immediately, then hands it to
// the renderer for insertion before the next block.
func (m *Manager) PlayStreaming(decoder streaming.Decoder, settings streaming.Settings) (streaming.Handle, error) {
	m.constructMu.Lock()
	defer m.constructMu.Unlock()

	if !settings.Track.IsMain() && !m.knownTracks[settings.Track] {
		return streaming.Handle{}, mixer.ErrUnknownDestination
	}

	key, err := m.sounds.Controller().Reserve()
	if err != nil {
		return streaming.Handle{}, err
	}
	s := streaming.New(decoder, settings, m.parameters, m.settings.CommandQueueDepth)
	if err := m.renderer.pendingSounds.Push(pendingSound{key: key, sound: s}); err != nil {
		m.renderer.pendingSoundQueueFullCount.Add(1)
		s.Close()
		return streaming.Handle{}, err
	}
	return streaming.NewHandle(s), nil
}
