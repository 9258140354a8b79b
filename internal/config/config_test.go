package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com/v1/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, "https://api.example.com/v1", cfg.UpstreamBaseURL)
	require.Equal(t, BackendMemory, cfg.StorageBackend)
	require.Equal(t, "bo_client", cfg.ClientCookieName)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("UPSTREAM_BASE_URL", "http://backoffice:3333")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendRedis, cfg.StorageBackend)
	require.Equal(t, 3, cfg.RedisDB)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServerPort:       "8080",
			RequestTimeout:   time.Second,
			UpstreamBaseURL:  "https://api.example.com",
			UpstreamTimeout:  time.Second,
			SessionSecret:    testSecret,
			ClientCookieName: "bo_client",
			ClientCookieTTL:  time.Hour,
			StorageBackend:   BackendMemory,
			RateLimitRPM:     10,
			AuthRateLimitRPM: 5,
			LogFormat:        "json",
		}
	}

	base := valid()
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"short secret":        func(c *Config) { c.SessionSecret = "short" },
		"relative upstream":   func(c *Config) { c.UpstreamBaseURL = "/api" },
		"ftp upstream":        func(c *Config) { c.UpstreamBaseURL = "ftp://files" },
		"unknown backend":     func(c *Config) { c.StorageBackend = "sqlite" },
		"postgres without db": func(c *Config) { c.StorageBackend = BackendPostgres },
		"file without path":   func(c *Config) { c.StorageBackend = BackendFile; c.StateFile = " " },
		"zero rate limit":     func(c *Config) { c.RateLimitRPM = 0 },
		"bad log format":      func(c *Config) { c.LogFormat = "xml" },
		"empty cookie name":   func(c *Config) { c.ClientCookieName = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
