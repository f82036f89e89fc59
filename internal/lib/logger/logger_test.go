package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/linemk/storefront/internal/lib/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_ProdJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.SetupLogger(logger.EnvProd, &buf)

	log.Debug("hidden")
	log.Info("starting app", slog.String("env", "prod"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "prod logger writes a single JSON line")
	assert.Equal(t, "starting app", entry["msg"])
	assert.Equal(t, "prod", entry["env"])
}

func TestSetupLogger_DevDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.SetupLogger(logger.EnvDev, &buf)
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupLogger_Local(t *testing.T) {
	var buf bytes.Buffer
	log := logger.SetupLogger(logger.EnvLocal, &buf)
	log.Info("request received")
	assert.Contains(t, buf.String(), "request received")
}
