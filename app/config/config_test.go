package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for one test; t.Setenv restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestProcess_Defaults(t *testing.T) {
	unsetenv(t, "PORT", "ENV", "STATE_MAX_AGE", "STATE_SECURE", "LOG_MODE", "FOUNDERHUB_DB", "FOUNDERHUB_PROFILE")

	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 31536000, cfg.Session.MaxAge)
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.Equal(t, "founderhub.db", cfg.Local.DBPath)
	assert.Equal(t, "default", cfg.Local.Profile)
	assert.False(t, cfg.Session.Secure)
	assert.False(t, cfg.IsProduction())
}

func TestProcess_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FOUNDERHUB_PROFILE", "work")
	t.Setenv("STATE_MAX_AGE", "600")

	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "work", cfg.Local.Profile)
	assert.Equal(t, 600, cfg.Session.MaxAge)
}

func TestProcess_ProductionForcesSecureCookies(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STATE_SECURE", "false")

	cfg, err := Process()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Session.Secure)
}

func TestProcess_InvalidInt(t *testing.T) {
	t.Setenv("STATE_MAX_AGE", "forever")

	_, err := Process()
	assert.Error(t, err)
}
