package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		minLevel   slog.Level
		wantSource bool
	}{
		{name: "info below warn threshold", level: slog.LevelInfo, minLevel: slog.LevelWarn, wantSource: false},
		{name: "warn at threshold", level: slog.LevelWarn, minLevel: slog.LevelWarn, wantSource: true},
		{name: "error above threshold", level: slog.LevelError, minLevel: slog.LevelWarn, wantSource: true},
		{name: "debug with debug threshold", level: slog.LevelDebug, minLevel: slog.LevelDebug, wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewSourceHandler(base, tt.minLevel))

			log.Log(nil, tt.level, "message")

			out := buf.String()
			assert.Equal(t, tt.wantSource, strings.Contains(out, "source="), out)
			if tt.wantSource {
				assert.Contains(t, out, "sourcehandler_test.go")
			}
		})
	}
}

func TestSourceHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewSourceHandler(base, slog.LevelError)).With("component", "test")

	log.Warn("not annotated")
	assert.NotContains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "component=test")

	buf.Reset()
	log.Error("annotated")
	assert.Contains(t, buf.String(), "source=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
