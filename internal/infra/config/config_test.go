package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, 60*time.Second, cfg.Cache.TTL)
	require.Equal(t, "site-data-v3", cfg.Cache.Key)
	require.Equal(t, "authToken", cfg.Site.CookieName)
	require.Equal(t, 60, cfg.Window.CountDays)
	require.False(t, cfg.Site.GateEnabled())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
upstream:
  apiUrl: https://api.uptimerobot.com/v3/
  apiKey: file-key
window:
  countDays: 30
  timezone: UTC
site:
  password: hunter2
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ENV_FILE", "")
	t.Setenv("API_KEY", "env-key")
	t.Setenv("SITE_SECRET_KEY", "signing-secret")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.uptimerobot.com/v3/", cfg.Upstream.APIURL)
	require.Equal(t, "env-key", cfg.Upstream.APIKey)
	require.Equal(t, 30, cfg.Window.CountDays)
	require.Equal(t, "UTC", cfg.Window.Timezone)
	require.Equal(t, 90*time.Second, cfg.Cache.TTL)
	require.True(t, cfg.Site.GateEnabled())
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("COUNT_DAYS=7\nTIMEZONE=UTC\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("COUNT_DAYS")
		os.Unsetenv("TIMEZONE")
	})

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", envPath)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Window.CountDays)
	require.Equal(t, "UTC", cfg.Window.Timezone)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"zero days", func(c *Config) { c.Window.CountDays = 0 }},
		{"bad timezone", func(c *Config) { c.Window.Timezone = "Mars/Olympus" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"empty key", func(c *Config) { c.Cache.Key = " " }},
		{"redis without addr", func(c *Config) { c.Cache.Redis.Enabled = true }},
		{"zero token ttl with gate", func(c *Config) {
			c.Site.Password = "pw"
			c.Site.SecretKey = "secret"
			c.Site.TokenTTL = 0
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAllowsMissingUpstreamCredentials(t *testing.T) {
	cfg := defaultConfig()
	cfg.Upstream.APIURL = ""
	cfg.Upstream.APIKey = ""
	require.NoError(t, cfg.Validate())
}

func TestGateEnabledRequiresBoth(t *testing.T) {
	require.False(t, SiteConfig{Password: "pw"}.GateEnabled())
	require.False(t, SiteConfig{SecretKey: "secret"}.GateEnabled())
	require.True(t, SiteConfig{Password: "pw", SecretKey: "secret"}.GateEnabled())
}
