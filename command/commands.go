package command

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/c360/callmeter/errors"
	"github.com/c360/callmeter/metric"
)

// Commands binds the operator command set to a dynamic metric store.
type Commands struct {
	store  *metric.UserStore
	logger *slog.Logger
}

// NewCommands creates the command set over the given store.
func NewCommands(store *metric.UserStore, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{store: store, logger: logger}
}

// parseArgs splits a raw argument string into a metric name and a value. The
// first whitespace token is the name; an optional second token is the value
// and defaults to 1 when absent. Tokens past the second are ignored.
func parseArgs(args string) (string, float64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", 0, errors.WrapInvalid(errors.ErrMissingName, "Commands", "parseArgs", "parse arguments")
	}

	name := fields[0]
	value := 1.0
	if len(fields) > 1 {
		parsed, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return "", 0, errors.WrapInvalid(errors.ErrInvalidValue, "Commands", "parseArgs",
				"parse value "+strconv.Quote(fields[1]))
		}
		value = parsed
	}
	return name, value, nil
}

// okReply renders the value in fixed notation; exponent form would surprise
// dialplan tooling that string-matches the reply.
func okReply(value float64) string {
	return "+OK " + strconv.FormatFloat(value, 'f', -1, 64)
}

// CounterIncrement adds the value (default 1) to the named counter, creating
// it on first use.
func (c *Commands) CounterIncrement(args string) (string, error) {
	name, value, err := parseArgs(args)
	if err != nil {
		return "", err
	}

	counter, err := c.store.GetOrCreateCounter(name)
	if err != nil {
		return "", err
	}
	return okReply(counter.Add(value)), nil
}

// GaugeSet sets the named gauge to the value (default 1), creating it on
// first use.
func (c *Commands) GaugeSet(args string) (string, error) {
	name, value, err := parseArgs(args)
	if err != nil {
		return "", err
	}

	gauge, err := c.store.GetOrCreateGauge(name)
	if err != nil {
		return "", err
	}
	return okReply(gauge.Set(value)), nil
}

// GaugeIncrement adds the value (default 1) to the named gauge, creating it
// on first use.
func (c *Commands) GaugeIncrement(args string) (string, error) {
	name, value, err := parseArgs(args)
	if err != nil {
		return "", err
	}

	gauge, err := c.store.GetOrCreateGauge(name)
	if err != nil {
		return "", err
	}
	return okReply(gauge.Add(value)), nil
}

// GaugeDecrement subtracts the value (default 1) from the named gauge,
// creating it on first use.
func (c *Commands) GaugeDecrement(args string) (string, error) {
	name, value, err := parseArgs(args)
	if err != nil {
		return "", err
	}

	gauge, err := c.store.GetOrCreateGauge(name)
	if err != nil {
		return "", err
	}
	return okReply(gauge.Sub(value)), nil
}

// GaugeIncrementApp is the fire-and-forget variant of GaugeIncrement for
// callers with no reply channel. Failures are logged, never returned.
func (c *Commands) GaugeIncrementApp(args string) {
	if _, err := c.GaugeIncrement(args); err != nil {
		c.logger.Error("Fire-and-forget gauge increment failed", "args", args, "error", err)
	}
}
