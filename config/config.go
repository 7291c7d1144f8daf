// Package config loads the settings of the cst command.
//
// Settings are read, in increasing order of precedence, from a YAML file, a
// .env file, and the process environment. Command line flags are applied by
// the caller on top of the loaded Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/cryptostock/market"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvCMCKey        = "CMC_API_KEY"
	EnvPortfolioFile = "CST_PORTFOLIO_FILE"
	EnvLogLevel      = "CST_LOG_LEVEL"
	EnvCacheDir      = "CST_CACHE_DIR"
)

// DefaultPortfolioFile is the portfolio file used when none is configured.
const DefaultPortfolioFile = "portfolios.json"

type Config struct {
	PortfolioFile string        `yaml:"portfolio_file"`
	Market        market.Config `yaml:"market"`
	Log           Log           `yaml:"log"`
	// Tracing exports the lookup spans to stderr.
	Tracing bool `yaml:"tracing"`
	// Workers is the number of concurrent price lookups during a valuation.
	Workers int `yaml:"workers"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		PortfolioFile: DefaultPortfolioFile,
		Market:        market.DefaultConfig(),
		Log:           Log{Level: "warn", Format: "console"},
		Workers:       4,
	}
}

// DefaultPath returns the configuration file read when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cst", "config.yaml")
}

// Load reads the configuration file at path, then the .env files (".env" if
// none is given), then the environment.
//
// An empty path reads DefaultPath if it exists. Missing .env files are
// ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := c.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read %s: %w", f, err)
		}
	}
	c.ApplyEnv(os.LookupEnv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with the variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCMCKey); ok && v != "" {
		c.Market.CoinMarketCapKey = v
	}
	if v, ok := lookup(EnvPortfolioFile); ok && v != "" {
		c.PortfolioFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.Market.CacheDir = v
	}
}

func (c *Config) Validate() error {
	if c.PortfolioFile == "" {
		return errors.New("portfolio_file cannot be empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json', got '%s'", c.Log.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Market.CacheTTL < 0 {
		return fmt.Errorf("market.cache_ttl cannot be negative, got %v", c.Market.CacheTTL)
	}
	if c.Market.RequestsPerMinute < 0 {
		return fmt.Errorf("market.requests_per_minute cannot be negative, got %d", c.Market.RequestsPerMinute)
	}
	return nil
}
