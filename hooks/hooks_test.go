package hooks

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("resolving", "codec", "gif")
	logger.Info("loaded", "frames", 3)
	logger.Warn("skipping", "path", "bad.codec.info")
	logger.Error("failed", "error", "boom")

	out := buf.String()
	for _, want := range []string{"resolving", "codec=gif", "frames=3", "skipping", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogLoggerNilFallback(t *testing.T) {
	logger := NewSlogLogger(nil)
	if logger == nil {
		t.Fatal("NewSlogLogger(nil) returned nil")
	}
	// Must not panic.
	logger.Info("default logger in use")
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Info("loaded", "codec", "png", "frames", 1)

	out := buf.String()
	for _, want := range []string{`"message":"loaded"`, `"codec":"png"`, `"frames":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestZerologLoggerOddFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Warn("partial", "dangling")

	out := buf.String()
	if !strings.Contains(out, `"extra":"dangling"`) {
		t.Errorf("dangling field not recorded:\n%s", out)
	}
}
