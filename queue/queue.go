// Package queue provides the bounded, non-blocking single-producer/
// single-consumer channel idiom used for every control-to-renderer command
// stream and every renderer-to-control resource return stream in the
// engine. A Go channel with a fixed buffer, sent to with select/default,
// behaves exactly like the SPSC ring buffers the rest of the engine
// assumes: never blocks, never allocates per-send, drops with an explicit
// error instead of stalling the caller.
package queue

import "errors"

// ErrFull is returned by Push when the queue has no free capacity. It is
// the Go-side sentinel for the engine's CommandQueueFull condition:
// transient and recoverable, never a bug by itself.
var ErrFull = errors.New("queue: full")

// Queue[T] is a thin wrapper around a buffered channel, giving the
// non-blocking push/drain pattern a name and a single place to adjust if
// the underlying transport ever changes.
type Queue[T any] struct {
	ch chan T
}

// New creates a Queue with room for capacity pending values.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Capacity returns the queue's fixed buffer size.
func (q *Queue[T]) Capacity() int {
	return cap(q.ch)
}

// Push enqueues value without blocking. It returns ErrFull if the queue is
// at capacity; the caller decides how to surface that to its own caller.
func (q *Queue[T]) Push(value T) error {
	select {
	case q.ch <- value:
		return nil
	default:
		return ErrFull
	}
}

// Pop removes and returns the oldest pending value, if any. It never
// blocks; ok is false when the queue is empty. The renderer consumes
// control-to-renderer queues only through Pop (directly or via Drain);
// on renderer-to-control queues it is the producer and uses Push.
func (q *Queue[T]) Pop() (value T, ok bool) {
	select {
	case value = <-q.ch:
		return value, true
	default:
		return value, false
	}
}

// Drain calls fn once per pending value, in FIFO order, until the queue is
// empty. This is the shape every renderer resource uses inside
// OnStartProcessing: drain the command queue fully, once, at the top of
// the block.
func (q *Queue[T]) Drain(fn func(T)) {
	for {
		v, ok := q.Pop()
		if !ok {
			return
		}
		fn(v)
	}
}
