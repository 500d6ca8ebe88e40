package telemetry

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// NewFileLogger opens (creating and appending to) a log file whose name is
// derived from pattern via strftime at time at -- e.g.
// "telemetry-%Y-%m-%d.log" for one file per start date (the name is fixed
// once opened; the file is not rotated), the same naming convention the teacher's own
// packet logger uses, generalized from a hand-rolled time.Format call to
// the teacher's actual strftime dependency.
func NewFileLogger(pattern string, at time.Time) (*log.Logger, *os.File, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: bad strftime pattern %q: %w", pattern, err)
	}
	name := f.FormatString(at)

	file, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: opening %s: %w", name, err)
	}
	return log.New(file), file, nil
}
