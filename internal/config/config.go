package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aniladanir/backoff"
)

type Config struct {
	BackoffBaseMs uint16 `yaml:"backoff_base_ms"`
	MaxBackoffMs  uint16 `yaml:"max_backoff_ms"`
	MaxAttempts   uint32 `yaml:"max_attempts"`
	// Source selects the random source: default, crypto or seeded:<n>.
	Source   string `yaml:"source"`
	URL      string `yaml:"url"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when neither a file nor the environment sets a value.
func Default() Config {
	return Config{
		BackoffBaseMs: backoff.DefaultBackoffBase,
		MaxBackoffMs:  backoff.DefaultMaxBackoff,
		MaxAttempts:   10,
		Source:        "default",
		URL:           "http://localhost:8080/health",
		LogLevel:      "info",
	}
}

// Load reads the file named by BACKOFF_CONFIG, if any, and applies environment overrides on top.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("BACKOFF_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}

	base, err := getEnvUint("BACKOFF_BASE_MS", uint64(cfg.BackoffBaseMs), math.MaxUint16)
	if err != nil {
		return Config{}, err
	}
	maxMs, err := getEnvUint("BACKOFF_MAX_MS", uint64(cfg.MaxBackoffMs), math.MaxUint16)
	if err != nil {
		return Config{}, err
	}
	attempts, err := getEnvUint("BACKOFF_MAX_ATTEMPTS", uint64(cfg.MaxAttempts), math.MaxUint32)
	if err != nil {
		return Config{}, err
	}

	cfg.BackoffBaseMs = uint16(base)
	cfg.MaxBackoffMs = uint16(maxMs)
	cfg.MaxAttempts = uint32(attempts)
	cfg.Source = getEnv("BACKOFF_SOURCE", cfg.Source)
	cfg.URL = getEnv("BACKOFF_URL", cfg.URL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if _, err := cfg.RandomFunc(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Parse decodes a YAML document over the defaults.
// yaml.v3 rejects numbers that overflow the uint16 and uint32 fields.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// RandomFunc builds the random source named by Source.
func (c Config) RandomFunc() (backoff.RandomFunc, error) {
	switch {
	case c.Source == "" || c.Source == "default":
		return backoff.DefaultRandomFunc(), nil
	case c.Source == "crypto":
		return backoff.CryptoRandomFunc(), nil
	case strings.HasPrefix(c.Source, "seeded:"):
		seed, err := strconv.ParseUint(strings.TrimPrefix(c.Source, "seeded:"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed in source %q: %w", c.Source, err)
		}
		return backoff.SeededRandomFunc(seed, seed), nil
	}

	return nil, fmt.Errorf("unknown random source %q", c.Source)
}

// Backoff returns a context initialized from c.
func (c Config) Backoff() (*backoff.Context, error) {
	rf, err := c.RandomFunc()
	if err != nil {
		return nil, err
	}

	return backoff.New(
		backoff.WithBackoffBase(c.BackoffBaseMs),
		backoff.WithMaxBackoff(c.MaxBackoffMs),
		backoff.WithMaxAttempts(c.MaxAttempts),
		backoff.WithRandomFunc(rf),
	), nil
}

var errOutOfRange = errors.New("value out of range")

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvUint(key string, fallback, limit uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	num, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if num > limit {
		return 0, fmt.Errorf("%s=%d: %w (max %d)", key, num, errOutOfRange, limit)
	}

	return num, nil
}
