package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLevelFromVerbosity verifies the -v count to level mapping, including clamping.
func TestLevelFromVerbosity(t *testing.T) {
	t.Parallel()

	cases := map[int]zapcore.Level{
		-1: zapcore.ErrorLevel,
		0:  zapcore.ErrorLevel,
		1:  zapcore.WarnLevel,
		2:  zapcore.InfoLevel,
		3:  zapcore.DebugLevel,
		4:  zapcore.DebugLevel,
		10: zapcore.DebugLevel,
	}
	for verbosity, want := range cases {
		require.Equal(t, want, LevelFromVerbosity(verbosity), "verbosity %d", verbosity)
	}
}

// TestFromContext_Fallback ensures the global logger is returned when the context carries none.
func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithName verifies that a named logger travels through the context
// and tags the messages it emits.
func TestWithName(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "setup")

	Info(ctx, "hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "setup", entries[0].LoggerName)
	require.Equal(t, "hello", entries[0].Message)
}

// TestWithKV verifies that key-value pairs attached to the context logger
// appear on subsequent entries.
func TestWithKV(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithKV(ctx, "step", "download")

	Warn(ctx, "slow response")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "download", entries[0].ContextMap()["step"])
}
