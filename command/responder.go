package command

import (
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/c360/callmeter/errors"
)

// Subjects the responder listens on.
const (
	SubjectCounterIncrement  = "callmeter.cmd.counter_increment"
	SubjectGaugeSet          = "callmeter.cmd.gauge_set"
	SubjectGaugeIncrement    = "callmeter.cmd.gauge_increment"
	SubjectGaugeDecrement    = "callmeter.cmd.gauge_decrement"
	SubjectGaugeIncrementApp = "callmeter.app.gauge_increment"
)

// Responder serves the command set over NATS request/reply. Each command
// subject answers with the command's "+OK" line, or "-ERR <reason>" when the
// command fails. The fire-and-forget app subject never answers.
type Responder struct {
	conn     *nats.Conn
	commands *Commands
	logger   *slog.Logger

	mu      sync.Mutex
	subs    []*nats.Subscription
	started bool
}

// NewResponder creates a responder over an established NATS connection.
func NewResponder(conn *nats.Conn, commands *Commands, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{conn: conn, commands: commands, logger: logger}
}

// Start subscribes every command subject. On any subscription failure the
// subscriptions created so far are released and the responder stays stopped.
func (r *Responder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return errors.ErrAlreadyStarted
	}
	if r.conn == nil || !r.conn.IsConnected() {
		return errors.ErrNotConnected
	}

	bindings := []struct {
		subject string
		command func(string) (string, error)
	}{
		{SubjectCounterIncrement, r.commands.CounterIncrement},
		{SubjectGaugeSet, r.commands.GaugeSet},
		{SubjectGaugeIncrement, r.commands.GaugeIncrement},
		{SubjectGaugeDecrement, r.commands.GaugeDecrement},
	}

	subs := make([]*nats.Subscription, 0, len(bindings)+1)
	for _, binding := range bindings {
		command := binding.command
		sub, err := r.conn.Subscribe(binding.subject, func(msg *nats.Msg) {
			r.respond(msg, command)
		})
		if err != nil {
			r.release(subs)
			return errors.WrapTransient(err, "Responder", "Start", "subscribe to "+binding.subject)
		}
		subs = append(subs, sub)
	}

	sub, err := r.conn.Subscribe(SubjectGaugeIncrementApp, func(msg *nats.Msg) {
		r.commands.GaugeIncrementApp(string(msg.Data))
	})
	if err != nil {
		r.release(subs)
		return errors.WrapTransient(err, "Responder", "Start", "subscribe to "+SubjectGaugeIncrementApp)
	}
	subs = append(subs, sub)

	r.subs = subs
	r.started = true
	r.logger.Info("Command responder started", "subjects", len(subs))
	return nil
}

func (r *Responder) respond(msg *nats.Msg, command func(string) (string, error)) {
	reply, err := command(string(msg.Data))
	if err != nil {
		reply = "-ERR " + err.Error()
	}
	if msg.Reply == "" {
		return
	}
	if err := msg.Respond([]byte(reply)); err != nil {
		r.logger.Error("Failed to answer command request", "subject", msg.Subject, "error", err)
	}
}

// Stop releases every command subscription. It is idempotent.
func (r *Responder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return nil
	}

	var firstErr error
	for _, sub := range r.subs {
		if err := sub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "Responder", "Stop", "release subscription")
		}
	}
	r.subs = nil
	r.started = false
	r.logger.Debug("Command responder stopped")
	return firstErr
}

func (r *Responder) release(subs []*nats.Subscription) {
	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			r.logger.Error("Failed to release subscription during rollback", "error", err)
		}
	}
}
