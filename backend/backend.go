// Package backend abstracts the platform audio device. A Backend's only
// job is to own the device and call into a Renderer once per block and
// once per sample; it carries no audio graph logic of its own.
package backend

import "fmt"

// Renderer is the callback surface a Backend drives. OnStartProcessing
// runs once per block; Process runs once per sample and returns the
// frame to emit.
type Renderer interface {
	OnStartProcessing()
	Process() (left, right float64)
}

// InitError wraps a backend-specific startup failure -- device open
// failures, unsupported sample rates, and the like. It is only ever
// returned from Init, never from anything on the render path.
type InitError struct {
	Backend string
	Cause   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("backend: %s init failed: %v", e.Backend, e.Cause)
}

func (e *InitError) Unwrap() error {
	return e.Cause
}

// Backend is the device abstraction: report the sample rate it runs at,
// then start calling into a Renderer.
type Backend interface {
	SampleRate() float64
	Init(renderer Renderer) error
	Stop() error
}
