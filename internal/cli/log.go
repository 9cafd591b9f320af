// Package cli implements the ballotgrid command-line interface.
//
// The commands wrap the pipeline, store and mark overlay packages. They are
// built with cobra and log through charmbracelet/log; results are printed
// with lipgloss styles.
//
// # Commands
//
//   - build: generate ballot styles, grid layouts and ballot PDFs
//   - rotate: print the candidate order of every ballot style
//   - layout: print the vote positions of one ballot style
//   - marks: print vote marks for a ballot from a vote list
//   - serve: run the HTTP API
//   - cache: manage the build cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
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
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// For example "Built 4 ballot styles (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
