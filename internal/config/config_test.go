package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "STORAGE_BACKEND", "KAFKA_BROKERS", "HTTP_TIMEOUT", "STORAGE_PROFILE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "file", cfg.StorageBackend)
	assert.Equal(t, "default", cfg.StorageProfile)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com/")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg := FromEnv()

	assert.Equal(t, "https://shop.example.com", cfg.APIBaseURL)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestFromEnv_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_PROFILE=from-dotenv\n"), 0o600))
	t.Setenv("STORAGE_PROFILE", "")
	os.Unsetenv("STORAGE_PROFILE")

	cfg, loaded := Load(path)

	assert.True(t, loaded)
	assert.Equal(t, "from-dotenv", cfg.StorageProfile)
}

func TestLoad_MissingFile(t *testing.T) {
	_, loaded := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.False(t, loaded)
}
