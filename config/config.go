// Package config loads the engine's construction-time settings: arena
// capacities, sample rate, and queue depths. These are read once on the
// control side before the engine starts; nothing here is touched by the
// renderer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings holds every capacity and sizing knob the engine needs before
// Manager.New can construct its arenas and registries.
type Settings struct {
	SampleRate          float64 `yaml:"sample_rate"`
	FramesPerBuffer     int     `yaml:"frames_per_buffer"`
	SoundCapacity       int     `yaml:"sound_capacity"`
	SubTrackCapacity    int     `yaml:"sub_track_capacity"`
	ClockCapacity       int     `yaml:"clock_capacity"`
	ParameterCapacity   int     `yaml:"parameter_capacity"`
	CommandQueueDepth   int     `yaml:"command_queue_depth"`
	TelemetryIntervalS  int     `yaml:"telemetry_interval_seconds"`
}

// Default returns the settings new projects start from: 44100 Hz, 512
// frames per buffer, room for 128 sounds / 16 sub-tracks / 16 clocks / 32
// parameters, 16-deep command queues, and a 10 second telemetry interval.
func Default() Settings {
	return Settings{
		SampleRate:         44100,
		FramesPerBuffer:    512,
		SoundCapacity:      128,
		SubTrackCapacity:   16,
		ClockCapacity:      16,
		ParameterCapacity:  32,
		CommandQueueDepth:  16,
		TelemetryIntervalS: 10,
	}
}

// Load reads Settings from a YAML file at path, starting from Default and
// overriding whatever fields the file sets.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return s, nil
}
