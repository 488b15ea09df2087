package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_KEY", "secret123")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "school_db", cfg.Database.Name)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("API_KEY", "secret123")

	path := writeConfigFile(t, `
server:
  port: "9090"
  mode: production
database:
  uri: mongodb://db:27017
  name: registry
logging:
  level: debug
  format: text
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Mode)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	assert.Equal(t, "registry", cfg.Database.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("API_KEY", "from-env")
	t.Setenv("MONGO_DB", "env_db")

	path := writeConfigFile(t, `
database:
  name: file_db
api:
  key: from-file
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env_db", cfg.Database.Name)
	assert.Equal(t, "from-env", cfg.API.Key)
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "API key is required")
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("API_KEY", "secret123")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "soon")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "connect timeout")
}
