package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Debug().Msg("debug message")
	logging.Info().Str("spec_id", "GQTS-CORE").Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	captured.AssertContains(t, "info message")
	captured.AssertContains(t, "GQTS-CORE")
	assert.Len(t, captured.Lines(), 4)
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithSpec(ctx, "GDIS-CORE")
	ctx = logging.WithOperation(ctx, "extract")
	ctx = logging.WithDocument(ctx, "peers/gdis/index.html")

	logging.FromContext(ctx).Info().Msg("indexed")

	testLogger.AssertContains(t, `"spec_id":"GDIS-CORE"`)
	testLogger.AssertContains(t, `"operation":"extract"`)
	testLogger.AssertContains(t, "peers/gdis/index.html")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "align.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "warn", Format: "json", Output: path})
		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "shown")
		assert.NotContains(t, string(data), "hidden")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "chatty", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New(buf)
	logger.Error().Msg("boom")
	assert.Contains(t, buf.String(), "boom")
}
