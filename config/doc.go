// Package config holds the runtime configuration for the callmeter process.
//
// Configuration comes from environment variables with sensible defaults;
// command-line flags in cmd/callmeter layer on top. Validate catches
// misconfiguration at startup (bad ports, unknown log levels) and classifies
// it fatal: the process refuses to start rather than run half-configured.
package config
