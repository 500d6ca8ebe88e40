package telemetry

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterSuppressesFirstReportAndLogsSubsequentDeltas(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	var queueFull atomic.Uint64
	counters := Counters{
		QueueFullCount: queueFull.Load,
		UnderrunCount:  func() uint64 { return 0 },
	}
	r := NewReporter(counters, 10*time.Millisecond, logger)

	r.report()
	assert.Empty(t, buf.String(), "the first report must never log, it has no prior sample to diff against")

	queueFull.Add(3)
	r.report()
	assert.Contains(t, buf.String(), "renderer health")
	assert.Contains(t, buf.String(), "queue_full")
}

func TestReporterSkipsLoggingWhenNothingChanged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	counters := Counters{
		QueueFullCount: func() uint64 { return 5 },
		UnderrunCount:  func() uint64 { return 0 },
	}
	r := NewReporter(counters, 10*time.Millisecond, logger)

	r.report()
	r.report()
	assert.Empty(t, buf.String(), "a report with no delta since the last one must stay silent")
}

func TestReporterStartStopDoesNotPanicWithZeroInterval(t *testing.T) {
	r := NewReporter(Counters{
		QueueFullCount: func() uint64 { return 0 },
		UnderrunCount:  func() uint64 { return 0 },
	}, 0, nil)
	r.Start()
	r.Stop()
}

func TestReporterStartLoopsUntilStop(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	var queueFull atomic.Uint64
	counters := Counters{
		QueueFullCount: queueFull.Load,
		UnderrunCount:  func() uint64 { return 0 },
	}
	r := NewReporter(counters, 5*time.Millisecond, logger)
	r.Start()

	require.Eventually(t, func() bool {
		queueFull.Add(1)
		return strings.Contains(buf.String(), "renderer health")
	}, time.Second, 5*time.Millisecond)
	r.Stop()
}
