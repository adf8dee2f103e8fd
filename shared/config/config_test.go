package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"API_PORT", "TEMPORAL_HOST", "TEMPORAL_NAMESPACE", "DATABASE_URL", "REDIS_URL",
	"STORAGE_BACKEND", "STORAGE_DIR", "CONFIRM_BACKEND",
	"SUBMIT_DELAY", "CONTINUE_DELAY", "CONFIRM_DELAY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTemporalHost, cfg.TemporalHost)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, ConfirmSimulated, cfg.ConfirmBackend)
	assert.Equal(t, time.Second, cfg.SubmitDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.ContinueDelay)
	assert.Equal(t, 2*time.Second, cfg.ConfirmDelay)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("CONFIRM_BACKEND", "temporal")
	t.Setenv("SUBMIT_DELAY", "0s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, ConfirmTemporal, cfg.ConfirmBackend)
	assert.Zero(t, cfg.SubmitDelay)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "STORAGE_BACKEND", value: "s3"},
		{key: "CONFIRM_BACKEND", value: "email"},
		{key: "SUBMIT_DELAY", value: "soon"},
		{key: "CONFIRM_DELAY", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set
	require.NoError(t, os.Unsetenv("API_PORT"))
	require.NoError(t, os.Unsetenv("CONFIRM_DELAY"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("API_PORT=7070\nCONFIRM_DELAY=5s\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ConfirmDelay)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
}
