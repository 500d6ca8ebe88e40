// Package telemetry periodically reports renderer health -- queue-full
// counts, streaming underruns -- from atomic counters the renderer
// updates, without ever calling into logging from the render thread
// itself. It is modeled directly on the teacher's own periodic audio
// device stats reporter: suppress the first, noisy report, then log each
// counter's change since the previous report every interval.
package telemetry

import (
	"time"

	"github.com/charmbracelet/log"
)

// Counters is the set of atomic, renderer-updated values a Reporter reads.
// Callers provide a function per counter so Reporter doesn't need to know
// about arenas, sounds, or tracks directly.
type Counters struct {
	QueueFullCount func() uint64
	UnderrunCount  func() uint64
}

// Reporter polls Counters on an interval and logs the delta since the
// last report, suppressing the first report the way the teacher's own
// audio_stats reporter does (the first interval is never a fair sample).
type Reporter struct {
	counters Counters
	interval time.Duration
	logger   *log.Logger

	lastQueueFull uint64
	lastUnderrun  uint64
	first         bool
	stop          chan struct{}
}

// NewReporter creates a Reporter that logs via logger (or the package
// default logger if nil) every interval.
func NewReporter(counters Counters, interval time.Duration, logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Reporter{
		counters: counters,
		interval: interval,
		logger:   logger,
		first:    true,
		stop:     make(chan struct{}),
	}
}

// Start begins the polling loop on its own goroutine. It is entirely
// control-side; nothing here ever runs on the render thread.
func (r *Reporter) Start() {
	if r.interval <= 0 {
		return
	}
	go r.loop()
}

// Stop ends the polling loop.
func (r *Reporter) Stop() {
	close(r.stop)
}

func (r *Reporter) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *Reporter) report() {
	queueFull := r.counters.QueueFullCount()
	underrun := r.counters.UnderrunCount()

	if r.first {
		r.first = false
		r.lastQueueFull = queueFull
		r.lastUnderrun = underrun
		return
	}

	deltaQueueFull := queueFull - r.lastQueueFull
	deltaUnderrun := underrun - r.lastUnderrun
	r.lastQueueFull = queueFull
	r.lastUnderrun = underrun

	if deltaQueueFull == 0 && deltaUnderrun == 0 {
		return
	}
	r.logger.Warn("renderer health",
		"queue_full", deltaQueueFull,
		"underruns", deltaUnderrun,
		"interval", r.interval,
	)
}
