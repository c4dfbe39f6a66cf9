package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "USD", config.DisplayCurrency)
	assert.Equal(t, "memory", config.Storage.Driver)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
}

func TestLoadConfig_MissingFilesSkipped(t *testing.T) {
	config, err := LoadConfig("does-not-exist.toml", "")
	require.NoError(t, err)
	assert.Equal(t, "memory", config.Storage.Driver)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tally.toml")
	content := `
environment = "production"
display_currency = "aud"

[storage]
driver = "surrealdb"
address = "ws://surreal:8000"
namespace = "tally"
database = "prod"

[logging]
level = "warn"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "AUD", config.DisplayCurrency, "currency codes normalize to upper case")
	assert.Equal(t, "surrealdb", config.Storage.Driver)
	assert.Equal(t, "ws://surreal:8000", config.Storage.Address)
	assert.Equal(t, "prod", config.Storage.Database)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

func TestLoadConfig_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	local := filepath.Join(dir, "local.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
[logging]
level = "info"
`), 0644))
	require.NoError(t, os.WriteFile(local, []byte(`
[logging]
level = "debug"
`), 0644))

	config, err := LoadConfig(base, local)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TALLY_ENV", "staging")
	t.Setenv("TALLY_DISPLAY_CURRENCY", "eur")
	t.Setenv("TALLY_STORAGE_DRIVER", "surrealdb")
	t.Setenv("TALLY_STORAGE_ADDRESS", "ws://override:8000")
	t.Setenv("TALLY_LOG_LEVEL", "debug")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "staging", config.Environment)
	assert.Equal(t, "EUR", config.DisplayCurrency)
	assert.Equal(t, "surrealdb", config.Storage.Driver)
	assert.Equal(t, "ws://override:8000", config.Storage.Address)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_UnknownDisplayCurrencyFallsBack(t *testing.T) {
	t.Setenv("TALLY_DISPLAY_CURRENCY", "NOTREAL")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "USD", config.DisplayCurrency)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
