package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the loader in an empty directory with the well-known variables cleared
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, name := range []string{
		"KB_ENV", "JWT_SECRET", "GOOGLE_CLIENT_ID", "DATABASE_URL", "PORT", "CORS_ORIGIN",
		"KB_AUTH_JWT_SECRET", "KB_DB_DRIVER", "KB_DB_URL", "KB_SERVER_PORT", "KB_LOGGER_LEVEL",
	} {
		t.Setenv(name, "")
	}
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Arrange
	isolate(t)

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.SweepInterval)
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "100000.00", cfg.Account.StartingBalance)
	assert.Equal(t, 10, cfg.Ledger.RecentLimit)
	assert.Equal(t, 100, cfg.Ledger.MaxLimit)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_File(t *testing.T) {
	// Arrange
	dir := isolate(t)
	t.Setenv("KB_ENV", "Test")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	yaml := `
server:
  port: 6000
  corsOrigins:
    - https://bank.example.com
    - https://admin.example.com
database:
  driver: sqlite
  queryTimeout: 500
auth:
  tokenTTL: 5
  cookieSecure: true
ledger:
  recentLimit: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test.yaml"), []byte(yaml), 0o600))

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, []string{"https://bank.example.com", "https://admin.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Database.QueryTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 25, cfg.Ledger.RecentLimit)
	assert.Equal(t, 100, cfg.Ledger.MaxLimit)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	testCases := []struct {
		name   string
		env    map[string]string
		assert func(t *testing.T, cfg *Config)
	}{
		{
			name: "well-known variables",
			env: map[string]string{
				"JWT_SECRET":       "a-very-long-secret-used-in-tests-only",
				"GOOGLE_CLIENT_ID": "client.apps.googleusercontent.com",
				"DATABASE_URL":     "postgres://kod:pw@db:5432/kodbank",
				"PORT":             "7070",
				"CORS_ORIGIN":      "https://a.example.com, https://b.example.com",
			},
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "a-very-long-secret-used-in-tests-only", cfg.Auth.JWTSecret)
				assert.Equal(t, "client.apps.googleusercontent.com", cfg.Auth.GoogleClientID)
				assert.Equal(t, "postgres://kod:pw@db:5432/kodbank", cfg.Database.URL)
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
			},
		},
		{
			name: "prefixed variables win over well-known ones",
			env: map[string]string{
				"JWT_SECRET":         "first-secret-first-secret-first-secret",
				"KB_AUTH_JWT_SECRET": "second-secret-second-secret-second-secret",
				"PORT":               "7070",
				"KB_SERVER_PORT":     "7171",
				"KB_DB_DRIVER":       "sqlite",
				"KB_LOGGER_LEVEL":    "debug",
			},
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "second-secret-second-secret-second-secret", cfg.Auth.JWTSecret)
				assert.Equal(t, 7171, cfg.Server.Port)
				assert.Equal(t, "sqlite", cfg.Database.Driver)
				assert.Equal(t, "debug", cfg.Logger.Level)
			},
		},
		{
			name: "production profile",
			env:  map[string]string{"KB_ENV": "production"},
			assert: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()

			require.NoError(t, err)
			tc.assert(t, cfg)
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitOrigins([]string{"a, b", " c ", ""}))
	assert.Empty(t, splitOrigins(nil))
}
