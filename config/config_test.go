package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/cryptostock/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvCMCKey, EnvPortfolioFile, EnvLogLevel, EnvCacheDir} {
		unsetenv(t, k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPortfolioFile, c.PortfolioFile)
	assert.Equal(t, market.DefaultYahooURL, c.Market.YahooURL)
	assert.Equal(t, market.DefaultCoinMarketCapURL, c.Market.CoinMarketCapURL)
	assert.Empty(t, c.Market.CoinMarketCapKey)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, 4, c.Workers)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
portfolio_file: /data/mine.json
workers: 8
tracing: true
log:
  level: debug
  format: json
market:
  cache_ttl: 5m
  requests_per_minute: 10
  coinmarketcap_api_key: from-file
`)
	c, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/data/mine.json", c.PortfolioFile)
	assert.Equal(t, 8, c.Workers)
	assert.True(t, c.Tracing)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, c.Log)
	assert.Equal(t, 5*time.Minute, c.Market.CacheTTL)
	assert.Equal(t, 10, c.Market.RequestsPerMinute)
	assert.Equal(t, "from-file", c.Market.CoinMarketCapKey)
	// unset keys keep their default.
	assert.Equal(t, market.DefaultYahooURL, c.Market.YahooURL)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "portfolio_file: file.json\nmarket:\n  coinmarketcap_api_key: from-file\n  cache_dir: /file/cache\n")
	env := writeFile(t, ".env", "CMC_API_KEY=from-dotenv\nCST_PORTFOLIO_FILE=dotenv.json\n")
	t.Setenv(EnvPortfolioFile, "env.json")
	t.Setenv(EnvLogLevel, "ERROR")

	c, err := Load(path, env)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", c.Market.CoinMarketCapKey, ".env beats the file")
	assert.Equal(t, "env.json", c.PortfolioFile, "the environment beats .env")
	assert.Equal(t, "error", c.Log.Level)
	assert.Equal(t, "/file/cache", c.Market.CacheDir)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	noEnv := filepath.Join(t.TempDir(), "missing.env")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	assert.ErrorIs(t, err, os.ErrNotExist, "an explicit file must exist")

	_, err = Load(writeFile(t, "bad.yaml", "workers: [1"), noEnv)
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "log:\n  level: chatty\n"), noEnv)
	assert.ErrorContains(t, err, "log.level")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty portfolio file", func(c *Config) { c.PortfolioFile = "" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative ttl", func(c *Config) { c.Market.CacheTTL = -time.Second }},
		{"negative rate", func(c *Config) { c.Market.RequestsPerMinute = -1 }},
	}
	require.NoError(t, Default().Validate())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvCMCKey: "k", EnvCacheDir: "/tmp/c", EnvPortfolioFile: ""}
	c := Default()
	c.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "k", c.Market.CoinMarketCapKey)
	assert.Equal(t, "/tmp/c", c.Market.CacheDir)
	assert.Equal(t, DefaultPortfolioFile, c.PortfolioFile, "empty values are ignored")
}
