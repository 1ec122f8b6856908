package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mes.log")
	l, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("lot received", zap.String("lot_number", "L-001"))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"lot received"`)
	assert.Contains(t, string(data), `"lot_number":"L-001"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_RejectsUnwritableOutput(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "mes.log")})
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithActorID(ctx, FromContext(ctx), "user-9")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-9", GetActorID(ctx))

	FromContext(ctx).Info("hello")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-9", fields["actor_id"])

	assert.NotNil(t, FromContext(context.Background()))
	assert.Same(t, base, WithTraceContext(context.Background(), base))
}
