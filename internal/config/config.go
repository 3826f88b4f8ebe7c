package config

import (
	"benritz/bonds/internal/types"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var (
	ENV_BUCKET_NAME      = "BONDS_REPORT_BUCKET_NAME"
	ENV_BUCKET_PREFIX    = "BONDS_REPORT_BUCKET_PREFIX"
	ENV_DEFAULT_CURRENCY = "BONDS_DEFAULT_CURRENCY"
	ENV_LOG_LEVEL        = "BONDS_LOG_LEVEL"
	ENV_MAX_ITERATIONS   = "BONDS_MAX_ITERATIONS"
	ENV_WORKERS          = "BONDS_WORKERS"

	defaultLogLevel = "info"
	defaultWorkers  = 4
)

// Config is the runtime configuration of the Lambda handlers.
type Config struct {
	BucketName      string
	BucketPrefix    string
	DefaultCurrency types.Currency
	LogLevel        logrus.Level
	MaxIterations   int
	Workers         int
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	currency, err := types.ParseCurrency(os.Getenv(ENV_DEFAULT_CURRENCY))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ENV_DEFAULT_CURRENCY, err)
	}

	level, err := logrus.ParseLevel(getString(ENV_LOG_LEVEL, defaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ENV_LOG_LEVEL, err)
	}

	maxIterations, err := getInt(ENV_MAX_ITERATIONS, types.DefaultMaxIterations)
	if err != nil {
		return nil, err
	}
	if maxIterations < 1 {
		return nil, fmt.Errorf("%s must be at least 1", ENV_MAX_ITERATIONS)
	}

	workers, err := getInt(ENV_WORKERS, defaultWorkers)
	if err != nil {
		return nil, err
	}

	return &Config{
		BucketName:      os.Getenv(ENV_BUCKET_NAME),
		BucketPrefix:    os.Getenv(ENV_BUCKET_PREFIX),
		DefaultCurrency: currency,
		LogLevel:        level,
		MaxIterations:   maxIterations,
		Workers:         workers,
	}, nil
}

// RequireBucket fails when no report bucket is configured.
func (c *Config) RequireBucket() error {
	if c.BucketName == "" {
		return fmt.Errorf("%s is not set", ENV_BUCKET_NAME)
	}
	return nil
}

// NewLogger returns a JSON logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(c.LogLevel)
	return logger
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
