// Package config loads replaysync settings from an optional YAML file, .env files and the
// process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spiretechnology/go-replaysync"
	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load.
const (
	EnvServerURL         = replaysync.EnvServerURL
	EnvWatchDir          = "REPLAYSYNC_WATCH_DIR"
	EnvExtension         = "REPLAYSYNC_EXTENSION"
	EnvMetricsAddr       = "REPLAYSYNC_METRICS_ADDR"
	EnvLogLevel          = "REPLAYSYNC_LOG_LEVEL"
	EnvStabilityInterval = "REPLAYSYNC_STABILITY_INTERVAL"
	EnvStabilityAttempts = "REPLAYSYNC_STABILITY_ATTEMPTS"
)

const (
	DefaultExtension         = replaysync.DefaultExtension
	DefaultStabilityInterval = replaysync.DefaultStabilityInterval
	DefaultStabilityAttempts = replaysync.DefaultStabilityAttempts
)

// envFiles are loaded in order; earlier files win and the real environment wins over all.
var envFiles = []string{".env.local", ".env"}

// Config is the resolved replaysync configuration.
type Config struct {
	WatchDir    string    `yaml:"watch_dir"`
	ServerURL   string    `yaml:"server_url"`
	Extension   string    `yaml:"extension"`
	MetricsAddr string    `yaml:"metrics_addr"`
	LogLevel    string    `yaml:"log_level"`
	Stability   Stability `yaml:"stability"`
}

// Stability tunes the write-completion probe.
type Stability struct {
	Interval time.Duration `yaml:"interval"`
	Attempts int           `yaml:"attempts"`
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Extension: DefaultExtension,
		LogLevel:  "info",
		Stability: Stability{
			Interval: DefaultStabilityInterval,
			Attempts: DefaultStabilityAttempts,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), then applies .env files
// and environment overrides. A missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles populates the process environment from any .env files present. Existing
// variables are never overwritten.
func loadEnvFiles() error {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvWatchDir); v != "" {
		c.WatchDir = v
	}
	if v := getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := getenv(EnvExtension); v != "" {
		c.Extension = v
	}
	if v := getenv(EnvMetricsAddr); v != "" {
		c.MetricsAddr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvStabilityInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStabilityInterval, err)
		}
		c.Stability.Interval = d
	}
	if v := getenv(EnvStabilityAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStabilityAttempts, err)
		}
		c.Stability.Attempts = n
	}
	return nil
}

func (c *Config) normalize() {
	c.Extension = strings.TrimSpace(c.Extension)
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Stability.Interval <= 0 {
		c.Stability.Interval = DefaultStabilityInterval
	}
	if c.Stability.Attempts <= 0 {
		c.Stability.Attempts = DefaultStabilityAttempts
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Stability.Attempts < 2 {
		return fmt.Errorf("stability.attempts must be at least 2, got %d", c.Stability.Attempts)
	}
	return nil
}
