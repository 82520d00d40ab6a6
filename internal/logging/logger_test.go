package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestForVerbosity(t *testing.T) {
	tests := []struct {
		level    int
		expected zerolog.Level
	}{
		{level: 0, expected: zerolog.InfoLevel},
		{level: 1, expected: zerolog.DebugLevel},
		{level: 2, expected: zerolog.InfoLevel},
		{level: 3, expected: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ForVerbosity(tt.level).Level, "verbosity %d", tt.level)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, Format: "json", Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Str("vlan", "10").Msg("converted")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"vlan":"10"`)
	assert.Contains(t, out, `"message":"converted"`)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("UNIFI2ICX_LOG_LEVEL", "WARN")
	t.Setenv("UNIFI2ICX_LOG_FORMAT", "json")

	logger := NewFromEnv()
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
