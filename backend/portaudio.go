package backend

import (
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudio drives a Renderer from a real output device via
// github.com/gordonklaus/portaudio, calling OnStartProcessing once per
// callback buffer and Process once per output frame.
type PortAudio struct {
	stream     *portaudio.Stream
	sampleRate float64
	framesPerBuffer int
	running    atomic.Bool
	renderer   Renderer
}

// NewPortAudio creates a PortAudio backend targeting the default output
// device at sampleRate, delivering framesPerBuffer stereo frames per
// callback.
func NewPortAudio(sampleRate float64, framesPerBuffer int) *PortAudio {
	return &PortAudio{sampleRate: sampleRate, framesPerBuffer: framesPerBuffer}
}

// SampleRate implements Backend.
func (p *PortAudio) SampleRate() float64 {
	return p.sampleRate
}

// Init implements Backend: initializes the PortAudio library, opens the
// default stereo output stream, and starts it running renderer's
// callbacks.
func (p *PortAudio) Init(renderer Renderer) error {
	p.renderer = renderer
	if err := portaudio.Initialize(); err != nil {
		return &InitError{Backend: "portaudio", Cause: err}
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, p.sampleRate, p.framesPerBuffer, p.process)
	if err != nil {
		portaudio.Terminate()
		return &InitError{Backend: "portaudio", Cause: err}
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return &InitError{Backend: "portaudio", Cause: err}
	}
	p.stream = stream
	p.running.Store(true)
	return nil
}

func (p *PortAudio) process(out [][]float32) {
	p.renderer.OnStartProcessing()
	for i := range out[0] {
		l, r := p.renderer.Process()
		out[0][i] = float32(l)
		out[1][i] = float32(r)
	}
}

// Stop implements Backend: stops and closes the stream and terminates the
// PortAudio library.
func (p *PortAudio) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		return err
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
