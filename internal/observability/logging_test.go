package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/helpdesk-portal/internal/config"
)

func TestNewLoggerHonorsLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerFallsBackToInfoOnUnknownLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}
