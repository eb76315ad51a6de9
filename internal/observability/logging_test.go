package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelnychuk/fableforge/internal/config"
	"github.com/amelnychuk/fableforge/internal/observability"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := observability.NewLogger(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		require.NotNil(t, logger, format)
		logger.Info("logger constructed")
		_ = logger.Sync()
	}
}

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := observability.NewLogger(config.LoggingConfig{Level: level, Format: "json"})
		require.NoError(t, err, level)
		assert.NotNil(t, logger, level)
	}
}

func TestNewLogger_InvalidInputs(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
