package streaming

import (
	"sync/atomic"
	"time"

	"github.com/wrenfold/resonance/clock"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/parameter"
	"github.com/wrenfold/resonance/queue"
	"github.com/wrenfold/resonance/sound"
	"github.com/wrenfold/resonance/track"
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

// command mirrors static's control-side request shape.
type command struct {
	setVolume       *value.Value[float64]
	setPlaybackRate *value.Value[value.PlaybackRate]
	setPanning      *value.Value[float64]
	pause           *tween.Tween
	resume          *tween.Tween
	stop            *tween.Tween
}

// Sound plays frames pulled from a Decoder running on its own goroutine.
// It implements sound.Sound.
type Sound struct {
	Shared sound.Shared

	decoder    Decoder
	settings   Settings
	sampleRate uint32

	frames   *queue.Queue[dsp.Frame]
	stopDecoder chan struct{}

	history    [4]dsp.Frame
	historyLen int
	fractional float64
	endOfStream bool

	underrunCount atomic.Uint64

	state sound.PlaybackState

	volume       *value.CachedValue[float64]
	playbackRate *value.CachedValue[value.PlaybackRate]
	panning      *value.CachedValue[float64]

	fade *tween.Tweenable[float64]

	waitingForStartTime bool
	startTime           tween.StartTime

	commands *queue.Queue[command]
}

// New constructs a Sound that reads from decoder on a dedicated goroutine,
// matching the one-decoder-thread-per-streaming-sound model.
func New(decoder Decoder, settings Settings, params *parameter.Parameters, commandQueueCapacity int) *Sound {
	s := &Sound{
		decoder:      decoder,
		settings:     settings,
		sampleRate:   decoder.SampleRate(),
		frames:       queue.New[dsp.Frame](settings.BufferedFrames),
		stopDecoder:  make(chan struct{}),
		state:        sound.Playing,
		volume:       value.NewCachedValue(settings.Volume, params),
		playbackRate: value.NewCachedValue(settings.PlaybackRate, params),
		panning:      value.NewCachedValue(settings.Panning, params),
		commands:     queue.New[command](commandQueueCapacity),
	}
	s.fade = tween.NewTweenable(1.0, tween.LerpFloat64)
	if settings.FadeInTween != nil {
		s.fade.Set(0.0)
		s.fade.StartTween(1.0, *settings.FadeInTween)
	}
	s.startTime = settings.StartTime
	s.waitingForStartTime = !settings.StartTime.Immediate
	go s.decodeLoop()
	return s
}

// decodeLoop runs on its own goroutine, continuously pulling frames from
// the decoder and pushing them into the bounded channel the renderer
// drains. It never touches renderer state directly.
func (s *Sound) decodeLoop() {
	for {
		select {
		case <-s.stopDecoder:
			return
		default:
		}
		frame, ok := s.decoder.NextFrame()
		if !ok {
			return
		}
		for {
			if err := s.frames.Push(frame); err == nil {
				break
			}
			select {
			case <-s.stopDecoder:
				return
			default:
			}
		}
	}
}

// Close stops the decoder goroutine. Call once the sound is being torn
// down.
func (s *Sound) Close() {
	close(s.stopDecoder)
}

// Track implements sound.Sound.
func (s *Sound) Track() track.Id {
	return s.settings.Track
}

func (s *Sound) pushCommand(cmd command) error {
	return s.commands.Push(cmd)
}

// OnStartProcessing implements sound.Sound.
func (s *Sound) OnStartProcessing(params *parameter.Parameters) {
	s.commands.Drain(func(cmd command) {
		if cmd.setVolume != nil {
			s.settings.Volume = *cmd.setVolume
		}
		if cmd.setPlaybackRate != nil {
			s.settings.PlaybackRate = *cmd.setPlaybackRate
		}
		if cmd.setPanning != nil {
			s.settings.Panning = *cmd.setPanning
		}
		if cmd.pause != nil && s.state == sound.Playing {
			s.state = sound.Paused
			s.fade.StartTween(0.0, *cmd.pause)
		}
		if cmd.resume != nil && s.state == sound.Paused {
			s.state = sound.Playing
			s.fade.StartTween(1.0, *cmd.resume)
		}
		if cmd.stop != nil && s.state != sound.Stopping && s.state != sound.Stopped {
			s.state = sound.Stopping
			s.fade.StartTween(0.0, *cmd.stop)
		}
	})
	s.volume.Update(params)
	s.playbackRate.Update(params)
	s.panning.Update(params)
}

// Finished implements sound.Sound.
func (s *Sound) Finished() bool {
	return s.state == sound.Stopped
}

// UnderrunCount returns the number of times Process needed a fresh frame
// that the decoder goroutine had not produced yet. Safe to read from the
// control side for telemetry.
func (s *Sound) UnderrunCount() uint64 {
	return s.underrunCount.Load()
}

func (s *Sound) pull() (dsp.Frame, bool) {
	f, ok := s.frames.Pop()
	if !ok {
		s.underrunCount.Add(1)
		return dsp.Silence, false
	}
	return f, true
}

// advanceHistory pulls one frame into the interpolation history, if one is
// available. It reports false when the decoder queue was empty, which the
// caller must treat as "try again next block" rather than retry in a loop --
// an empty queue before end of stream is an underrun, not a signal to stop.
func (s *Sound) advanceHistory() bool {
	if s.historyLen < 4 {
		f, ok := s.pull()
		if !ok {
			return false
		}
		s.history[s.historyLen] = f
		s.historyLen++
		return true
	}
	f, ok := s.pull()
	if !ok {
		s.endOfStream = true
		return false
	}
	s.history[0] = s.history[1]
	s.history[1] = s.history[2]
	s.history[2] = s.history[3]
	s.history[3] = f
	return true
}

// Process implements sound.Sound.
func (s *Sound) Process(dt time.Duration, clocks *clock.Clocks, params *parameter.Parameters) dsp.Frame {
	if s.waitingForStartTime {
		if s.startTime.Immediate || clocks.HasTicked(s.startTime.Clock) {
			s.waitingForStartTime = false
		} else {
			return dsp.Silence
		}
	}

	for s.historyLen < 4 && !s.endOfStream {
		if !s.advanceHistory() {
			break
		}
	}

	if s.state == sound.Paused {
		s.fade.Update(dt, clocks)
		if !s.fade.Tweening() {
			return dsp.Silence
		}
	} else if s.state == sound.Stopping {
		if s.fade.Update(dt, clocks) {
			s.state = sound.Stopped
		}
	} else {
		s.fade.Update(dt, clocks)
	}

	if s.state == sound.Stopped || s.endOfStream {
		s.state = sound.Stopped
		return dsp.Silence
	}

	frame := dsp.Interpolate4Point(s.history[0], s.history[1], s.history[2], s.history[3], s.fractional)

	rate := s.playbackRate.Value().AsFactor()
	s.fractional += dt.Seconds() * rate * float64(s.sampleRate)
	for s.fractional >= 1.0 {
		s.fractional -= 1.0
		s.advanceHistory()
	}

	frame = frame.Scale(s.volume.Value() * s.fade.Value())
	frame = frame.Panned(s.panning.Value())
	return frame
}

// MarkedForRemoval implements sound.Sound.
func (s *Sound) MarkedForRemoval() bool {
	return s.Shared.MarkedForRemoval()
}
