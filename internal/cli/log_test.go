package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	// Small delay to ensure measurable duration
	time.Sleep(10 * time.Millisecond)

	prog.done("test completed")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	// Should contain the message
	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestDiagnosticsWithoutSpinner(t *testing.T) {
	var logBuf, status bytes.Buffer
	old := statusOut
	statusOut = &status
	defer func() { statusOut = old }()

	d := diagnostics{logger: newLogger(&logBuf, log.DebugLevel)}
	d.Info("info line")
	d.Warn("skipped unresolved hypernym target x of y")
	d.Progress("converting", false)

	if !strings.Contains(status.String(), "skipped unresolved") {
		t.Errorf("warning not printed: %q", status.String())
	}
	for _, want := range []string{"info line", "converting"} {
		if !strings.Contains(logBuf.String(), want) {
			t.Errorf("log missing %q", want)
		}
	}
}

func TestDiagnosticsUpdatesSpinner(t *testing.T) {
	var out bytes.Buffer
	s := newSpinnerTo(context.Background(), &out, "start")
	d := diagnostics{logger: newLogger(&bytes.Buffer{}, log.InfoLevel), spinner: s}

	d.Progress("converting n02084071", false)
	if s.message != "converting n02084071" {
		t.Errorf("spinner message = %q", s.message)
	}
	d.Progress("conversion failed", true)
	if s.message != "converting n02084071" {
		t.Errorf("failed progress should not replace the message, got %q", s.message)
	}
}
