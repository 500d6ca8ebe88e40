// Command demotone plays a generated sine tone through a sub-track with a
// delay effect, driven by the PortAudio backend. It exists to exercise
// Manager end to end outside of tests.
package main

import (
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/wrenfold/resonance"
	"github.com/wrenfold/resonance/backend"
	"github.com/wrenfold/resonance/config"
	"github.com/wrenfold/resonance/dsp"
	"github.com/wrenfold/resonance/effect"
	"github.com/wrenfold/resonance/sound/static"
	"github.com/wrenfold/resonance/telemetry"
	"github.com/wrenfold/resonance/track"
	"github.com/wrenfold/resonance/tween"
	"github.com/wrenfold/resonance/value"
)

func main() {
	var (
		configPath   = pflag.StringP("config", "c", "", "path to a YAML settings file (defaults built in if unset)")
		frequency    = pflag.Float64P("frequency", "f", 440.0, "tone frequency in Hz")
		durationS    = pflag.Float64P("duration", "d", 3.0, "tone duration in seconds")
		delayMixF    = pflag.Float64("delay-mix", 0.35, "wet/dry mix for the delay effect, 0-1")
		verbose      = pflag.BoolP("verbose", "v", false, "enable debug logging")
		telemetryLog = pflag.String("telemetry-log", "", "strftime pattern for a telemetry log file (e.g. telemetry-%Y-%m-%d.log); stderr only if unset")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *telemetryLog != "" {
		fileLogger, f, err := telemetry.NewFileLogger(*telemetryLog, time.Now())
		if err != nil {
			logger.Fatal("opening telemetry log", "err", err)
		}
		defer f.Close()
		logger = fileLogger
		if *verbose {
			logger.SetLevel(log.DebugLevel)
		}
	}

	settings := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("loading config", "err", err)
		}
		settings = loaded
	}

	be := backend.NewPortAudio(settings.SampleRate, settings.FramesPerBuffer)
	mgr, err := resonance.New(settings, be, logger)
	if err != nil {
		logger.Fatal("starting engine", "err", err)
	}
	defer mgr.Shutdown()

	delaySettings := effect.DefaultDelaySettings()
	delaySettings.Mix = value.FixedFloat64(*delayMixF)
	delayFx, _ := effect.NewDelay(delaySettings, mgr.Parameters())

	builder := track.NewBuilder().AddEffect(delayFx).Route(track.Main, value.FixedFloat64(1.0))
	trackId, err := mgr.AddSubTrack(builder)
	if err != nil {
		logger.Fatal("creating track", "err", err)
	}

	data := generateTone(*frequency, *durationS, settings.SampleRate)
	soundSettings := static.DefaultSettings()
	soundSettings.Track = trackId
	soundSettings.FadeInTween = &tween.Tween{
		Duration: 50 * time.Millisecond,
		Easing:   tween.Linear{},
		Start:    tween.Now(),
	}

	handle, err := mgr.PlayStatic(data, soundSettings)
	if err != nil {
		logger.Fatal("playing tone", "err", err)
	}
	defer handle.MarkForRemoval()

	logger.Info("playing tone", "frequency", *frequency, "duration", *durationS)
	time.Sleep(time.Duration(*durationS * float64(time.Second)))
	time.Sleep(300 * time.Millisecond) // let the delay tail ring out
}

// generateTone builds an in-memory Data buffer containing durationS
// seconds of a sine wave at frequency, sampled at sampleRate.
func generateTone(frequency, durationS, sampleRate float64) *static.Data {
	n := int(durationS * sampleRate)
	frames := make([]dsp.Frame, n)
	for i := range frames {
		t := float64(i) / sampleRate
		s := math.Sin(2*math.Pi*frequency*t) * 0.3
		frames[i] = dsp.Frame{Left: s, Right: s}
	}
	return &static.Data{SampleRate: uint32(sampleRate), Frames: frames}
}
