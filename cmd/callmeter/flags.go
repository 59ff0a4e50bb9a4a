package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/c360/callmeter/config"
)

// cliOptions bundles the runtime configuration with the flags that short-
// circuit startup.
type cliOptions struct {
	cfg         *config.Config
	showVersion bool
	showHelp    bool
}

// parseFlags layers command-line flags over the environment-derived
// configuration. Every flag's default is the environment value, so flags win
// over environment which wins over the built-in defaults.
func parseFlags() *cliOptions {
	cfg := config.FromEnv()
	opts := &cliOptions{cfg: cfg}

	flag.IntVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort,
		"Metrics listen port (env: CALLMETER_METRICS_PORT)")

	flag.StringVar(&cfg.MetricsPath, "metrics-path", cfg.MetricsPath,
		"Metrics scrape path (env: CALLMETER_METRICS_PATH)")

	flag.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL,
		"NATS server URL (env: CALLMETER_NATS_URL)")

	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel,
		"Log level: debug, info, warn, error (env: CALLMETER_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat,
		"Log format: json, text (env: CALLMETER_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout,
		"Graceful shutdown timeout (env: CALLMETER_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.BoolVar(&opts.showVersion, "v", false, "Show version information")
	flag.BoolVar(&opts.showHelp, "help", false, "Show help information")
	flag.BoolVar(&opts.showHelp, "h", false, "Show help information")

	flag.Usage = printDetailedHelp
	flag.Parse()

	return opts
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - telephony metrics aggregation engine

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run with a custom scrape port
  %s --metrics-port=9100

  # Run against a remote NATS server with text logging
  %s --nats-url=nats://broker:4222 --log-format=text

  # Run with environment variables
  export CALLMETER_METRICS_PORT=9100
  export CALLMETER_LOG_LEVEL=debug
  %s

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}
