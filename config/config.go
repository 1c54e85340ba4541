// Package config loads service configuration from a YAML file with
// environment variable overrides. A missing file yields the defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/history"
)

// Config holds all service configuration. The Gemini API key is taken
// from the environment only and is never written to disk.
type Config struct {
	// Listen address for the HTTP API.
	Addr string `yaml:"addr"`

	// Session storage.
	Store StoreConfig `yaml:"store"`

	// Model used when a turn does not name one.
	DefaultModel string `yaml:"default_model"`

	// Logging level: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// APIKey is populated from GEMINI_API_KEY.
	APIKey string `yaml:"-"`
}

// StoreConfig selects and configures the session store driver.
type StoreConfig struct {
	Driver    history.Driver `yaml:"driver"` // file, memory, redis
	Dir       string         `yaml:"dir"`
	RedisAddr string         `yaml:"redis_addr"`
	RedisTTL  string         `yaml:"redis_ttl"` // duration string, e.g. "24h"
}

// TTL parses the configured redis TTL. Empty means no expiry.
func (s StoreConfig) TTL() (time.Duration, error) {
	if s.RedisTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.RedisTTL)
	if err != nil {
		return 0, fmt.Errorf("config: redis_ttl: %w", err)
	}
	return d, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Addr: ":8000",
		Store: StoreConfig{
			Driver: history.DriverFile,
			Dir:    "data/history",
		},
		DefaultModel: apsara.ModelGemini20Flash,
		LogLevel:     "info",
	}
}

// Load loads configuration from a YAML file. A missing file returns the
// defaults; environment overrides always apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for contradictions that Load cannot
// express as defaults.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case history.DriverFile, history.DriverMemory:
	case history.DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("config: redis driver requires redis_addr")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if _, err := c.Store.TTL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.APIKey = os.Getenv("GEMINI_API_KEY")
	if addr := os.Getenv("APSARA_ADDR"); addr != "" {
		c.Addr = addr
	}
	if dir := os.Getenv("APSARA_HISTORY_DIR"); dir != "" {
		c.Store.Dir = dir
	}
	if driver := os.Getenv("APSARA_STORE_DRIVER"); driver != "" {
		c.Store.Driver = history.Driver(driver)
	}
	if addr := os.Getenv("APSARA_REDIS_ADDR"); addr != "" {
		c.Store.RedisAddr = addr
	}
	if model := os.Getenv("APSARA_DEFAULT_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if level := os.Getenv("APSARA_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}
