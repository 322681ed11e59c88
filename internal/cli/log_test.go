package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  string
	}{
		{
			name:  "info passes at info level",
			level: log.InfoLevel,
			emit:  func(l *log.Logger) { l.Info("layout computed", "nodes", 4) },
			want:  "layout computed",
		},
		{
			name:  "debug suppressed at info level",
			level: log.InfoLevel,
			emit:  func(l *log.Logger) { l.Debug("cache key", "key", "artifact:abc") },
			want:  "",
		},
		{
			name:  "debug passes at debug level",
			level: log.DebugLevel,
			emit:  func(l *log.Logger) { l.Debug("cache key", "key", "artifact:abc") },
			want:  "cache key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))

			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("logged %q, want nothing", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("logged %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	prog.done("Exported 2 formats")

	out := buf.String()
	if !strings.Contains(out, "Exported 2 formats") {
		t.Errorf("output %q missing the completion message", out)
	}
	// The elapsed duration is appended in parentheses.
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("output %q missing the elapsed duration", out)
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Fatal("loggerFromContext returned a different logger than was attached")
	}

	loggerFromContext(ctx).Info("autosave restored")
	if !strings.Contains(buf.String(), "autosave restored") {
		t.Errorf("output %q, want the message written through the context logger", buf.String())
	}
}

func TestLoggerFromContextFallsBackToDefault(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext must fall back to log.Default for a bare context")
	}
}
