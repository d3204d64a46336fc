// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadAppliesDefaultsAndFile(t *testing.T) {
	clearEnv(t, "DATABASE_URL", "REDIS_URL", "PORT", "APP_TIMEZONE")
	path := writeFile(t, "config.yaml", `
database:
  url: postgres://localhost/praxis
redis:
  url: redis://localhost:6379/0
app:
  timezone: UTC
`)

	c, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/praxis", c.Database.URL)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 10*time.Minute, c.Cache.TTL)
	assert.Equal(t, time.UTC, c.App.Location())
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, time.Hour, c.Scheduler.TokenCleanupInterval)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
database:
  url: postgres://file/praxis
redis:
  url: redis://file:6379/0
`)
	clearEnv(t, "APP_TIMEZONE")
	t.Setenv("DATABASE_URL", "postgres://env/praxis")
	t.Setenv("PORT", "9090")

	c, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/praxis", c.Database.URL)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "Asia/Tokyo", c.App.Timezone)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t, "DATABASE_URL", "REDIS_URL")

	dotenv := writeFile(t, ".env", "DATABASE_URL=postgres://dotenv/praxis\nREDIS_URL=redis://dotenv:6379/0\n")

	c, err := load("", dotenv)
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv/praxis", c.Database.URL)
	assert.Equal(t, "redis://dotenv:6379/0", c.Redis.URL)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/praxis")
	t.Setenv("REDIS_URL", "redis://env:6379/0")

	_, err := load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing database url",
			yaml: "redis:\n  url: redis://x\n",
		},
		{
			name: "unknown timezone",
			yaml: "database:\n  url: postgres://x\nredis:\n  url: redis://x\napp:\n  timezone: Mars/Olympus\n",
		},
		{
			name: "wildcard cors with credentials",
			yaml: "database:\n  url: postgres://x\nredis:\n  url: redis://x\ncors:\n  allowed_origins: ['*']\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t, "DATABASE_URL", "REDIS_URL", "APP_TIMEZONE")

			_, err := load(writeFile(t, "config.yaml", tt.yaml), "")
			assert.Error(t, err)
		})
	}
}
