package static

import (
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

// Sound plays back an in-memory Data buffer. It implements sound.Sound.
type Sound struct {
	Shared sound.Shared

	data     *Data
	settings Settings

	state    sound.PlaybackState
	position float64

	volume       *value.CachedValue[float64]
	playbackRate *value.CachedValue[value.PlaybackRate]
	panning      *value.CachedValue[float64]

	// fade is the internal amplitude tween driven by pause/resume/stop; it
	// is never exposed to the user as a Value, unlike volume/panning.
	fade *tween.Tweenable[float64]

	waitingForStartTime bool
	startTime           tween.StartTime

	commands *queue.Queue[command]
}

// New constructs a Sound from data and settings. The sound starts in
// Playing state, held at the fade-in tween if settings.FadeInTween is set,
// else immediately at full volume.
func New(data *Data, settings Settings, params *parameter.Parameters, commandQueueCapacity int) *Sound {
	s := &Sound{
		data:         data,
		settings:     settings,
		state:        sound.Playing,
		volume:       value.NewCachedValue(settings.Volume, params),
		playbackRate: value.NewCachedValue(settings.PlaybackRate, params),
		panning:      value.NewCachedValue(settings.Panning, params),
		commands:     queue.New[command](commandQueueCapacity),
	}
	if settings.LoopBehavior != nil {
		s.position = loopStart(settings, data)
	} else if settings.Reverse {
		s.position = data.Duration()
	}
	s.fade = tween.NewTweenable(1.0, tween.LerpFloat64)
	if settings.FadeInTween != nil {
		s.fade.Set(0.0)
		s.fade.StartTween(1.0, *settings.FadeInTween)
	}
	s.startTime = settings.StartTime
	s.waitingForStartTime = !settings.StartTime.Immediate
	return s
}

func loopStart(settings Settings, data *Data) float64 {
	if settings.Reverse {
		return data.Duration() - settings.LoopBehavior.StartPosition
	}
	return settings.LoopBehavior.StartPosition
}

// Track implements sound.Sound.
func (s *Sound) Track() track.Id {
	return s.settings.Track
}

// PushCommand enqueues a control-side command, never blocking.
func (s *Sound) pushCommand(cmd command) error {
	return s.commands.Push(cmd)
}

// OnStartProcessing drains pending commands once per block and forwards to
// the cached settings' underlying parameter state.
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

// Process implements sound.Sound: advances position by dt*playbackRate
// (accounting for Reverse), produces the sample at that position, applies
// volume/panning and the fade amplitude, and handles loop/end-of-data.
func (s *Sound) Process(dt time.Duration, clocks *clock.Clocks, params *parameter.Parameters) dsp.Frame {
	if s.waitingForStartTime {
		if s.startTime.Immediate || clocks.HasTicked(s.startTime.Clock) {
			s.waitingForStartTime = false
		} else {
			return dsp.Silence
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

	if s.state == sound.Stopped {
		return dsp.Silence
	}

	frame := s.data.frameAtPosition(s.position)

	rate := s.playbackRate.Value().AsFactor()
	delta := dt.Seconds() * rate
	if s.settings.Reverse {
		delta = -delta
	}
	s.position += delta
	s.handleBoundary()

	frame = frame.Scale(s.volume.Value() * s.fade.Value())
	frame = frame.Panned(s.panning.Value())
	return frame
}

func (s *Sound) handleBoundary() {
	duration := s.data.Duration()
	if s.settings.Reverse {
		if s.position < 0 {
			if s.settings.LoopBehavior != nil {
				s.position = duration - s.settings.LoopBehavior.StartPosition
			} else {
				s.state = sound.Stopped
			}
		}
		return
	}
	if s.position >= duration {
		if s.settings.LoopBehavior != nil {
			s.position = s.settings.LoopBehavior.StartPosition
		} else {
			s.state = sound.Stopped
		}
	}
}

// Position returns the sound's current playback position, in seconds.
func (s *Sound) Position() float64 {
	return s.position
}

// State returns the sound's current playback state.
func (s *Sound) State() sound.PlaybackState {
	return s.state
}

// MarkedForRemoval implements sound.Sound.
func (s *Sound) MarkedForRemoval() bool {
	return s.Shared.MarkedForRemoval()
}
