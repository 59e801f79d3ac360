package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestCIReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{out: &buf}

	r.Start("Summarizing web page")
	r.Stop()
	r.Stop() // second stop is silent

	out := buf.String()
	if !strings.Contains(out, "Summarizing web page...") {
		t.Errorf("missing start line: %q", out)
	}
	if strings.Count(out, "done in") != 1 {
		t.Errorf("expected exactly one done line: %q", out)
	}
}

func TestTerminalReporterStartStop(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{out: &buf}
	r.Start("Thinking")
	r.Start("Thinking again")
	r.Stop()
	r.Stop()
	if r.bar != nil {
		t.Error("bar should be cleared after Stop")
	}
}
