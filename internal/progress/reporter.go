package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter shows that a backend request is outstanding.
type Reporter interface {
	Start(label string)
	Stop()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{out: os.Stderr}
	}
	return &TerminalReporter{out: os.Stderr}
}

// TerminalReporter displays a spinner while a request is in flight.
type TerminalReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(label string) {
	if r.bar != nil {
		r.Stop()
	}
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	go r.spin(r.bar)
}

// spin advances the spinner until it is finished.
func (r *TerminalReporter) spin(bar *progressbar.ProgressBar) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if bar.IsFinished() {
			return
		}
		_ = bar.Add(1)
	}
}

func (r *TerminalReporter) Stop() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	out     io.Writer
	label   string
	started time.Time
}

func (r *CIReporter) Start(label string) {
	r.label = label
	r.started = time.Now()
	fmt.Fprintf(r.out, "%s...\n", label)
}

func (r *CIReporter) Stop() {
	if r.label == "" {
		return
	}
	fmt.Fprintf(r.out, "%s done in %s\n", r.label, time.Since(r.started).Round(time.Millisecond))
	r.label = ""
}
