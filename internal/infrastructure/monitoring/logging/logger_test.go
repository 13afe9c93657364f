package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &zapLogger{z: zap.New(core)}, logs
}

func TestNewLoggerJSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLoggerAppliesDefaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLoggerLevels(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "debug msg", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLoggerWithAddsFields(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	l.With(String("component", "extract")).Info("msg", Int("pages", 3))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "extract", ctx["component"])
	assert.EqualValues(t, 3, ctx["pages"])
}

func TestZapLoggerNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	l.Named("http").Info("msg")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "http", entries[0].LoggerName)
}

func TestFieldConstructors(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	l.Info("msg",
		String("s", "v"),
		Int("i", 1),
		Int64("i64", int64(2)),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", time.Second),
		Strings("ss", []string{"a", "b"}),
		Err(errors.New("boom")),
	)

	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "v", ctx["s"])
	assert.EqualValues(t, 1, ctx["i"])
	assert.EqualValues(t, 2, ctx["i64"])
	assert.Equal(t, 1.5, ctx["f"])
	assert.Equal(t, true, ctx["b"])
	assert.Equal(t, time.Second, ctx["d"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestErrNil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLoggerNoPanics(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestDefaultLoggerRoundTrip(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored
	SetDefault(nil)
	assert.Equal(t, l, Default())
}

func TestNewLoggerFromCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)
	l.Info("hello")
	require.Len(t, logs.All(), 1)
}
