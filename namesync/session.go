package namesync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/scgolang/osc"

	"github.com/scgolang/wingsync/metrics"
	"github.com/scgolang/wingsync/wingosc"
)

// Default completion timings.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultDeadline     = 2 * time.Second
)

// Link is the set of endpoints a session talks through.
type Link interface {
	// Query sends a query to the console.
	Query(osc.Message) error
	// RenameStrip sends a strip name to the recorder.
	RenameStrip(index int, name string) error
	// Close releases every endpoint. It must be idempotent.
	Close() error
}

// Reporter receives human-readable progress lines.
type Reporter interface {
	Report(line string)
}

// ReporterFunc adapts a func to Reporter.
type ReporterFunc func(line string)

// Report calls f(line).
func (f ReporterFunc) Report(line string) { f(line) }

// Trigger names what finalized a session.
type Trigger string

// Triggers.
const (
	TriggerComplete Trigger = "complete"
	TriggerDeadline Trigger = "deadline"
)

// Result summarizes a finished session.
type Result struct {
	Total    int
	Resolved int
	Trigger  Trigger
	Strips   []Strip
	Acked    int
	Failed   int
}

// Partial returns a *PartialResolutionError if the deadline hit before every
// output was named.
func (r Result) Partial() error {
	if r.Resolved >= r.Total {
		return nil
	}
	return &PartialResolutionError{Resolved: r.Resolved, Total: r.Total}
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Source       string
	PollInterval time.Duration
	Deadline     time.Duration
}

// Session is the state of a single transfer. It is used once.
type Session struct {
	SessionConfig

	link     Link
	ledger   *Ledger
	resolver *Resolver
	reporter Reporter
	log      zerolog.Logger

	finished bool
}

// NewSession creates a session with a fresh ledger sized for the source group.
func NewSession(config SessionConfig, link Link, reporter Reporter, log zerolog.Logger) *Session {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.Deadline <= 0 {
		config.Deadline = DefaultDeadline
	}
	if reporter == nil {
		reporter = ReporterFunc(func(string) {})
	}
	ledger := NewLedger(wingosc.ChannelCount(config.Source))

	return &Session{
		SessionConfig: config,
		link:          link,
		ledger:        ledger,
		resolver:      NewResolver(config.Source, ledger),
		reporter:      reporter,
		log:           log,
	}
}

// Ledger returns the session's ledger.
func (s *Session) Ledger() *Ledger {
	return s.ledger
}

// Run queries the console, applies replies until every output is named or
// the deadline passes, then pushes the names to the recorder.
// The link must already be listening for replies.
func (s *Session) Run(ctx context.Context, replies <-chan wingosc.Reply) (Result, error) {
	if err := s.link.Query(wingosc.Remote()); err != nil {
		return Result{}, &wingosc.TransportError{Op: "sending xremote", Err: err}
	}
	s.report("→ Sent xremote")

	if err := s.send(s.resolver.Start()); err != nil {
		return Result{}, err
	}
	var (
		ticker   = time.NewTicker(s.PollInterval)
		deadline = time.NewTimer(s.Deadline)
	)
	defer ticker.Stop()
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()

		case reply, ok := <-replies:
			if !ok {
				// Listener is gone; the deadline finalizes with what we have.
				replies = nil
				continue
			}
			metrics.Replies.WithLabelValues(reply.Kind.String()).Inc()
			if err := s.send(s.resolver.Handle(reply)); err != nil {
				return Result{}, err
			}

		case <-ticker.C:
			if s.ledger.NamedCount() == s.ledger.Len() {
				return s.finish(TriggerComplete, ticker, deadline), nil
			}

		case <-deadline.C:
			s.report("⏱ Timeout reached (%d/%d names)", s.ledger.NamedCount(), s.ledger.Len())
			return s.finish(TriggerDeadline, ticker, deadline), nil
		}
	}
}

func (s *Session) send(msgs []osc.Message) error {
	for _, m := range msgs {
		if err := s.link.Query(m); err != nil {
			return &wingosc.TransportError{Op: "querying " + m.Address, Err: err}
		}
	}
	return nil
}

// finish stops both triggers and pushes the names. Only the first call
// has any effect.
func (s *Session) finish(trigger Trigger, ticker *time.Ticker, deadline *time.Timer) Result {
	if s.finished {
		return Result{}
	}
	s.finished = true
	ticker.Stop()
	deadline.Stop()

	res := Result{
		Total:    s.ledger.Len(),
		Resolved: s.ledger.NamedCount(),
		Trigger:  trigger,
		Strips:   Strips(s.ledger),
	}
	s.log.Info().
		Str("trigger", string(trigger)).
		Int("resolved", res.Resolved).
		Int("total", res.Total).
		Msg("finalizing")

	res.Acked, res.Failed = s.push(res.Strips)
	return res
}

func (s *Session) report(format string, args ...interface{}) {
	s.reporter.Report(fmt.Sprintf(format, args...))
}
