package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorting-waste-app/services/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
env: "staging"
http_server:
  address: "0.0.0.0:9000"
  shutdown_timeout: 3s
storage:
  driver: "sqlite"
  path: "data/app.db"
  operation_timeout: 2s
auth:
  bcrypt_cost: 6
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPServer.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/app.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Storage.OperationTimeout)
	assert.Equal(t, "sorting-waste-app", cfg.Storage.Database)
	assert.Equal(t, 6, cfg.Auth.BcryptCost)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: "mongodb"
`)
	t.Setenv("MONGO_URI", "mongodb://db:27017")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.Storage.URI)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_PATH", "/tmp/x.db")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "storage:\n  driver: \"postgres\"\n"},
		{name: "mongodb without uri", body: "storage:\n  driver: \"mongodb\"\n"},
		{name: "sqlite without path", body: "storage:\n  driver: \"sqlite\"\n"},
		{name: "unknown env", body: "env: \"qa\"\nstorage:\n  driver: \"sqlite\"\n  path: \"x.db\"\n"},
		{name: "bcrypt cost too low", body: "storage:\n  driver: \"sqlite\"\n  path: \"x.db\"\nauth:\n  bcrypt_cost: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGO_URI", "")
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}
