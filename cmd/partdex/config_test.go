package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partdex/internal/config"
)

func TestConfigInitAndShow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partdex.yml")

	output, err := executeCommand(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, output, path)

	output, err = executeCommand(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "daily_limit:     1000")
	assert.Contains(t, output, "locale.site:     US")
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partdex.yml")

	_, err := executeCommand(t, "--config", path, "config", "init")
	require.NoError(t, err)

	_, err = executeCommand(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigSetPersistsValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partdex.yml")

	for _, args := range [][]string{
		{"config", "set", "client_id", "my-id"},
		{"config", "set", "client_secret", "my-secret-99"},
		{"config", "set", "sandbox", "true"},
		{"config", "set", "daily_limit", "500"},
	} {
		_, err := executeCommand(t, append([]string{"--config", path}, args...)...)
		require.NoError(t, err)
	}

	output, err := executeCommand(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "client_id:       my-id")
	assert.Contains(t, output, "********t-99")
	assert.Contains(t, output, "sandbox:         true")
	assert.Contains(t, output, "daily_limit:     500")
	assert.NotContains(t, output, "my-secret-99")
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "partdex.yml")

	_, err := executeCommand(t, "--config", path, "config", "set", "nope", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	require.NoError(t, setConfigValue(cfg, "locale.currency", "KRW"))
	assert.Equal(t, "KRW", cfg.Locale.Currency)

	require.NoError(t, setConfigValue(cfg, "logging.level", "debug"))
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.Error(t, setConfigValue(cfg, "daily_limit", "abc"))
	require.Error(t, setConfigValue(cfg, "sandbox", "maybe"))
}
