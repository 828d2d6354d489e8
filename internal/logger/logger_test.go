package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelFollowsDebugFlag(t *testing.T) {
	log, err := New(FormatJSON, false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))

	debugLog, err := New(FormatConsole, true)
	require.NoError(t, err)
	assert.True(t, debugLog.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_UnknownFormatFallsBackToJSON(t *testing.T) {
	log, err := New(Format("yaml"), false)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "short string unchanged", in: "hello", limit: 10, want: "hello"},
		{name: "trimmed before measuring", in: "  hello  ", limit: 5, want: "hello"},
		{name: "truncated with ellipsis", in: "hello world", limit: 5, want: "hello..."},
		{name: "multibyte runes counted once", in: "héllo wörld", limit: 4, want: "héll..."},
		{name: "zero limit", in: "hello", limit: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateForLog(tt.in, tt.limit))
		})
	}
}
