package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCLILogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewCLILogger(&buf, level)
			require.NotNil(t, logger)
			logger.Error("score rejected")
			assert.Contains(t, buf.String(), "score rejected")
		})
	}
}

func TestCLIHandler_Colors(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		color string
	}{
		{"info", func(l *slog.Logger) { l.Info("msg") }, colorGreen},
		{"warn", func(l *slog.Logger) { l.Warn("msg") }, colorYellow},
		{"error", func(l *slog.Logger) { l.Error("msg") }, colorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(slog.New(NewCLIHandler(&buf, slog.LevelInfo)))
			assert.Contains(t, buf.String(), tt.color+"msg")
			assert.Contains(t, buf.String(), colorReset)
		})
	}
}

func TestCLIHandler_LevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		logFunc      func(*slog.Logger)
		shouldLog    bool
	}{
		{"info handler logs info", slog.LevelInfo, func(l *slog.Logger) { l.Info("test") }, true},
		{"info handler filters debug", slog.LevelInfo, func(l *slog.Logger) { l.Debug("test") }, false},
		{"debug handler logs debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("test") }, true},
		{"error handler filters warn", slog.LevelError, func(l *slog.Logger) { l.Warn("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(slog.New(NewCLIHandler(&buf, tt.handlerLevel)))
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestCLIHandler_DynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	logger := slog.New(NewCLIHandler(&buf, lvl))

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	lvl.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestCLIHandler_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCLIHandler(&buf, slog.LevelInfo)).With("run", "r1")

	logger.Info("score recorded", "score", "[0]hard/[1]soft", "feasible", true)

	out := buf.String()
	assert.Contains(t, out, "score recorded: run=r1 score=[0]hard/[1]soft feasible=true")
}

func TestCLIHandler_WithAttrsEmpty(t *testing.T) {
	h := NewCLIHandler(&bytes.Buffer{}, slog.LevelInfo)
	assert.Equal(t, h, h.WithAttrs(nil))
}

func TestCLIHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewCLIHandler(&buf, slog.LevelInfo)

	assert.Equal(t, h, h.WithGroup(""))

	logger := slog.New(h).WithGroup("store").WithGroup("sqlite")
	logger.Info("opened")

	assert.Contains(t, buf.String(), "[store.sqlite] opened")
}

func TestSetDefaultCLILogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	SetDefaultCLILogger("debug")
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"  debug  ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}
