// Package config loads the settings of the pnl tools.
//
// Values come from a YAML file, then from environment variables (a .env file
// in the working directory is loaded first), then from command-line flags that
// the cmd package applies on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/pnl"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no configuration file is given and it exists.
const DefaultFile = "pnl.yaml"

// Config holds application configuration
type Config struct {
	Base          string   `yaml:"base"`           // base currency
	Ledger        string   `yaml:"ledger"`         // JSONL ledger file
	Market        []string `yaml:"market"`         // market data files, merged in order
	Database      string   `yaml:"database"`       // SQLite file, empty to skip persistence
	ForexLookback int      `yaml:"forex_lookback"` // days
	PriceLookback int      `yaml:"price_lookback"` // days
	Workers       int      `yaml:"workers"`
	LogLevel      string   `yaml:"log_level"`
	PrettyLog     bool     `yaml:"pretty_log"`
	Schedule      string   `yaml:"schedule"` // cron expression of the schedule command
	Window        int      `yaml:"window"`   // days computed by scheduled runs, 0 for the whole history
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Base:          "EUR",
		Ledger:        "ledger.jsonl",
		ForexLookback: pnl.DefaultForexLookback,
		PriceLookback: pnl.DefaultPriceLookback,
		Workers:       1,
		LogLevel:      "info",
		Schedule:      "0 22 * * 1-5",
	}
}

// Load reads the configuration file at path, then the environment.
//
// An empty path falls back to PNL_CONFIG, then to DefaultFile when it exists.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	explicit := true
	if path == "" {
		path = getEnv("PNL_CONFIG", "")
	}
	if path == "" {
		path, explicit = DefaultFile, false
	}

	err := cfg.loadFile(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.loadEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.Base = strings.ToUpper(getEnv("PNL_BASE", c.Base))
	c.Ledger = getEnv("PNL_LEDGER", c.Ledger)
	if v := getEnv("PNL_MARKET", ""); v != "" {
		c.Market = strings.Split(v, ",")
	}
	c.Database = getEnv("PNL_DATABASE", c.Database)
	c.ForexLookback = getEnvAsInt("PNL_FOREX_LOOKBACK", c.ForexLookback)
	c.PriceLookback = getEnvAsInt("PNL_PRICE_LOOKBACK", c.PriceLookback)
	c.Workers = getEnvAsInt("PNL_WORKERS", c.Workers)
	c.LogLevel = getEnv("PNL_LOG_LEVEL", c.LogLevel)
	c.PrettyLog = getEnvAsBool("PNL_PRETTY_LOG", c.PrettyLog)
	c.Schedule = getEnv("PNL_SCHEDULE", c.Schedule)
	c.Window = getEnvAsInt("PNL_WINDOW", c.Window)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := pnl.ValidateCurrency(c.Base); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if c.ForexLookback < 1 {
		return fmt.Errorf("forex_lookback must be positive")
	}
	if c.PriceLookback < 1 {
		return fmt.Errorf("price_lookback must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Window < 0 {
		return fmt.Errorf("window must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
