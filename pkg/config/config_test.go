package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "finnhub", cfg.Providers.Primary)
	require.Equal(t, 10*time.Second, cfg.Providers.Timeout)
	require.Equal(t, 500*time.Millisecond, cfg.Providers.RetryBackoff)
	require.Equal(t, "https://finnhub.io/api/v1", cfg.Providers.Finnhub.BaseURL)
	require.Equal(t, []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA", "NVDA", "META", "NFLX"}, cfg.Watchlist)
	require.Equal(t, "memory", cfg.Cache.Backend)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "environment: test\nproviders:\n  primary: bloomberg\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "providers.primary")
}

func TestLoadRejectsRedisWithoutAddr(t *testing.T) {
	path := writeConfig(t, "environment: test\ncache:\n  backend: redis\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cache.redis.addr")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("PRIMARY_PROVIDER", "ALPHAVANTAGE")
	t.Setenv("PORT", "9090")
	t.Setenv("WATCHLIST", "aapl, msft")

	cfg, err := LoadWithEnv(path)
	require.NoError(t, err)
	require.Equal(t, "fh-key", cfg.Providers.Finnhub.APIKey)
	require.Equal(t, "alphavantage", cfg.Providers.Primary)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist)
}

func TestLoadMissingEnvironmentFails(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")

	_, err := Load(path)
	require.Error(t, err)
}
