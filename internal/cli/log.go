package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/semtree/pkg/provider"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Converted 3 trees (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// diagnostics routes conversion diagnostics to the terminal: warnings are
// printed, progress updates the spinner and everything is logged at debug
// level.
type diagnostics struct {
	logger  *log.Logger
	spinner *Spinner
}

func (d diagnostics) Info(msg string) { d.logger.Debug(msg) }

func (d diagnostics) Warn(msg string) {
	d.logger.Debug(msg)
	if d.spinner != nil {
		d.spinner.Pause(func() { printWarning("%s", msg) })
		return
	}
	printWarning("%s", msg)
}

func (d diagnostics) Progress(msg string, failed bool) {
	d.logger.Debug(msg, "failed", failed)
	if d.spinner != nil && !failed {
		d.spinner.SetMessage(msg)
	}
}

var _ provider.Diagnostics = diagnostics{}
