package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"development", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"production", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestGet_WithoutInitReturnsNop(t *testing.T) {
	l := Get()
	require.NotNil(t, l)
	l.Info("not written anywhere", zap.String("k", "v"))
}

func TestInit(t *testing.T) {
	err := Init(&Config{Level: "info", ServiceName: "extranet-test"})
	require.NoError(t, err)

	l := Get()
	require.NotNil(t, l)
	assert.NotNil(t, l.With(zap.String("request_id", "abc")).Zap())
}
