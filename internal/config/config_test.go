package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"CONTACTS_ENV_FILE",
	"CONTACTS_JWT_SECRET",
	"JWT_SECRET",
	"CONTACTS_AUTH_MODE",
	"CONTACTS_USERNAME",
	"CONTACTS_PASSWORD",
	"CONTACTS_LISTEN_ADDR",
	"CONTACTS_DB_PATH",
	"CONTACTS_DB_STRICT_INIT",
	"CONTACTS_COOKIE_SECURE",
	"CONTACTS_LOGIN_PATH",
	"CONTACTS_LOGIN_FAILURE_STATUS",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test. The env file is pointed at a path that does not
// exist so a developer's .env cannot leak in.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
	t.Setenv("CONTACTS_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CONTACTS_JWT_SECRET", "s3cret")
	t.Setenv("CONTACTS_AUTH_MODE", "username")
	t.Setenv("CONTACTS_USERNAME", "alice")
	t.Setenv("CONTACTS_PASSWORD", "wonderland")
	t.Setenv("CONTACTS_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("CONTACTS_DB_PATH", "/tmp/test.sqlite")
	t.Setenv("CONTACTS_DB_STRICT_INIT", "true")
	t.Setenv("CONTACTS_COOKIE_SECURE", "false")
	t.Setenv("CONTACTS_LOGIN_PATH", "/account/login")
	t.Setenv("CONTACTS_LOGIN_FAILURE_STATUS", "401")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, AuthModeUsername, cfg.AuthMode)
	assert.Equal(t, "alice", cfg.Username)
	assert.Equal(t, "wonderland", cfg.Password)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.sqlite", cfg.DBPath)
	assert.True(t, cfg.StrictDBInit)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "/account/login", cfg.LoginPath)
	assert.Equal(t, http.StatusUnauthorized, cfg.LoginFailureStatus)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CONTACTS_JWT_SECRET", "s3cret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, AuthModeToken, cfg.AuthMode)
	assert.Equal(t, "demo", cfg.Username)
	assert.Equal(t, "demo", cfg.Password)
	assert.Equal(t, "127.0.0.1:3000", cfg.ListenAddr)
	assert.Equal(t, "contacts.sqlite", cfg.DBPath)
	assert.False(t, cfg.StrictDBInit)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "/accounts/login", cfg.LoginPath)
	assert.Equal(t, http.StatusOK, cfg.LoginFailureStatus)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_JWTSecretFallback(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("JWT_SECRET", "legacy")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.JWTSecret)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "auth mode", key: "CONTACTS_AUTH_MODE", value: "roles"},
		{name: "strict init", key: "CONTACTS_DB_STRICT_INIT", value: "maybe"},
		{name: "cookie secure", key: "CONTACTS_COOKIE_SECURE", value: "yes please"},
		{name: "failure status not a number", key: "CONTACTS_LOGIN_FAILURE_STATUS", value: "nope"},
		{name: "failure status out of range", key: "CONTACTS_LOGIN_FAILURE_STATUS", value: "500"},
		{name: "empty username", key: "CONTACTS_USERNAME", value: ""},
		{name: "relative login path", key: "CONTACTS_LOGIN_PATH", value: "accounts/login"},
		{name: "root login path", key: "CONTACTS_LOGIN_PATH", value: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("CONTACTS_JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	isolateConfigEnv(t)

	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("CONTACTS_JWT_SECRET=from-file\nCONTACTS_DB_PATH=file.sqlite\n"), 0o600))
	t.Setenv("CONTACTS_ENV_FILE", envPath)
	t.Setenv("CONTACTS_DB_PATH", "env-wins.sqlite")
	t.Cleanup(func() { os.Unsetenv("CONTACTS_JWT_SECRET") })

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "env-wins.sqlite", cfg.DBPath, "real environment should win over the env file")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	assert.NoError(t, LoadEnvFile(""))
}
