package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:           5175,
		ClientOrigin:   "http://localhost:5173",
		LogLevel:       "info",
		RequestTimeout: 10 * time.Second,
		DatabaseDriver: "memory",
		JWTSecret:      "0123456789",
		JWTExpiresDays: 14,
		CookieName:     "wheelword_token",
		Epoch:          "2025-01-01",
		Strategy:       "sequential",
	}
}

// chdirTemp isolates Load from a developer's .env.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero port":        func(c *Config) { c.Port = 0 },
		"bad log level":    func(c *Config) { c.LogLevel = "verbose" },
		"unknown driver":   func(c *Config) { c.DatabaseDriver = "mysql" },
		"sqlite no dsn":    func(c *Config) { c.DatabaseDriver = "sqlite" },
		"unknown strategy": func(c *Config) { c.Strategy = "random" },
		"hmac no salt":     func(c *Config) { c.Strategy = "hmac" },
		"bad epoch":        func(c *Config) { c.Epoch = "01/01/2025" },
		"short secret":     func(c *Config) { c.JWTSecret = "x" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5175, c.Port)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, "sequential", c.Strategy)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, ":5175", c.Addr())

	epoch, err := c.EpochTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), epoch)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "wheelword.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\ndatabase_driver: memory\nwheelword_strategy: hmac\nwheelword_salt: pepper\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, c.Port)
	assert.Equal(t, "memory", c.DatabaseDriver)
	assert.Equal(t, "hmac", c.Strategy)
	assert.Equal(t, "pepper", c.Salt)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WHEELWORD_SHARE_URL=https://wheelshouse.app/wheelword\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("WHEELWORD_SHARE_URL") })

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://wheelshouse.app/wheelword", c.ShareURL)
}

func TestLoad_InvalidEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_FILE", "/nonexistent/wheelword.yaml")

	_, err := Load()
	assert.Error(t, err)
}
