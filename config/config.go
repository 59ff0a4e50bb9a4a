package config

import (
	"fmt"
	"time"

	"github.com/c360/callmeter/errors"
)

// Defaults applied when the environment does not override them.
const (
	DefaultMetricsPort     = 9282
	DefaultMetricsPath     = "/metrics"
	DefaultNATSURL         = "nats://localhost:4222"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultShutdownTimeout = 30 * time.Second
)

// Config is the full runtime configuration.
type Config struct {
	MetricsPort     int
	MetricsPath     string
	NATSURL         string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MetricsPort:     DefaultMetricsPort,
		MetricsPath:     DefaultMetricsPath,
		NATSURL:         DefaultNATSURL,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() *Config {
	return &Config{
		MetricsPort:     getEnvInt("CALLMETER_METRICS_PORT", DefaultMetricsPort),
		MetricsPath:     getEnv("CALLMETER_METRICS_PATH", DefaultMetricsPath),
		NATSURL:         getEnv("CALLMETER_NATS_URL", DefaultNATSURL),
		LogLevel:        getEnv("CALLMETER_LOG_LEVEL", DefaultLogLevel),
		LogFormat:       getEnv("CALLMETER_LOG_FORMAT", DefaultLogFormat),
		ShutdownTimeout: getEnvDuration("CALLMETER_SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
	}
}

// Validate checks the configuration and returns a fatal classified error on
// the first problem found.
func (c *Config) Validate() error {
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return errors.WrapFatal(
			fmt.Errorf("%w: metrics port %d out of range", errors.ErrInvalidConfig, c.MetricsPort),
			"Config", "Validate", "validate metrics port")
	}
	if c.MetricsPath == "" || c.MetricsPath[0] != '/' {
		return errors.WrapFatal(
			fmt.Errorf("%w: metrics path %q must start with /", errors.ErrInvalidConfig, c.MetricsPath),
			"Config", "Validate", "validate metrics path")
	}
	if c.NATSURL == "" {
		return errors.WrapFatal(
			fmt.Errorf("%w: NATS URL is empty", errors.ErrInvalidConfig),
			"Config", "Validate", "validate NATS URL")
	}
	if !validLogLevel(c.LogLevel) {
		return errors.WrapFatal(
			fmt.Errorf("%w: unknown log level %q", errors.ErrInvalidConfig, c.LogLevel),
			"Config", "Validate", "validate log level")
	}
	if !validLogFormat(c.LogFormat) {
		return errors.WrapFatal(
			fmt.Errorf("%w: unknown log format %q", errors.ErrInvalidConfig, c.LogFormat),
			"Config", "Validate", "validate log format")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.WrapFatal(
			fmt.Errorf("%w: shutdown timeout %v must be positive", errors.ErrInvalidConfig, c.ShutdownTimeout),
			"Config", "Validate", "validate shutdown timeout")
	}
	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func validLogFormat(format string) bool {
	switch format {
	case "json", "text":
		return true
	}
	return false
}
