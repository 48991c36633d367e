// Package namesync copies channel names from a WING console to a LiveTrax
// recorder.
//
// A transfer discovers the console, asks it how every output of a source
// group is routed, resolves a name for each output from the replies and
// sends the names to the recorder. Replies may arrive in any order or not
// at all; whatever is known when every output has a name, or when the
// deadline passes, is pushed.
package namesync

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/scgolang/wingsync/discovery"
	"github.com/scgolang/wingsync/metrics"
	"github.com/scgolang/wingsync/recorder"
	"github.com/scgolang/wingsync/wingosc"
)

// Config holds the ports and timings of a transfer.
type Config struct {
	LocalPort        int
	ConsolePort      int
	RecorderPort     int
	DiscoveryPort    int
	DiscoveryTimeout time.Duration
	PollInterval     time.Duration
	Deadline         time.Duration
}

// DefaultConfig returns the protocol defaults.
func DefaultConfig() Config {
	return Config{
		LocalPort:        wingosc.DefaultLocalPort,
		ConsolePort:      wingosc.ConsolePort,
		RecorderPort:     recorder.Port,
		DiscoveryPort:    wingosc.DiscoveryPort,
		DiscoveryTimeout: discovery.DefaultTimeout,
		PollInterval:     DefaultPollInterval,
		Deadline:         DefaultDeadline,
	}
}

// TransferRequest names the devices and the source group of a transfer.
type TransferRequest struct {
	Console  string
	Recorder string
	Source   string
}

// Engine runs transfers, one at a time.
type Engine struct {
	Config

	log    zerolog.Logger
	active int32
}

// NewEngine creates an engine.
func NewEngine(config Config, log zerolog.Logger) *Engine {
	return &Engine{Config: config, log: log}
}

// Busy reports whether a transfer is running.
func (e *Engine) Busy() bool {
	return atomic.LoadInt32(&e.active) == 1
}

// Transfer runs one transfer and reports progress to reporter. It fails
// with ErrTransferInProgress if another transfer is running. Every error is
// also reported as a single line; resources are always released.
func (e *Engine) Transfer(ctx context.Context, req TransferRequest, reporter Reporter) (Result, error) {
	if reporter == nil {
		reporter = ReporterFunc(func(string) {})
	}
	fail := func(err error) error {
		reporter.Report("❌ Error: " + err.Error())
		return err
	}
	if !atomic.CompareAndSwapInt32(&e.active, 0, 1) {
		return Result{}, fail(ErrTransferInProgress)
	}
	defer atomic.StoreInt32(&e.active, 0)

	req.Source = strings.ToUpper(req.Source)
	if err := req.validate(); err != nil {
		return Result{}, fail(err)
	}
	var (
		start = time.Now()
		log   = e.log.With().
			Str("transfer", uuid.NewString()).
			Str("console", req.Console).
			Str("recorder", req.Recorder).
			Str("group", req.Source).
			Logger()
	)
	reporter.Report(fmt.Sprintf("→ Starting transfer: WING=%s, LiveTrax=%s, Group=%s", req.Console, req.Recorder, req.Source))

	res, err := e.transfer(ctx, req, reporter, log)
	metrics.TransferDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Transfers.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("transfer failed")
		return res, fail(err)
	}
	metrics.ChannelsResolved.Set(float64(res.Resolved))
	reporter.Report(fmt.Sprintf("✅ Transfer finished (%d/%d names)", res.Resolved, res.Total))

	if perr := res.Partial(); perr != nil {
		metrics.Transfers.WithLabelValues("partial").Inc()
		log.Warn().Err(perr).Msg("transfer finished with missing names")
	} else {
		metrics.Transfers.WithLabelValues("ok").Inc()
		log.Info().Int("strips", len(res.Strips)).Msg("transfer finished")
	}
	return res, nil
}

func (e *Engine) transfer(ctx context.Context, req TransferRequest, reporter Reporter, log zerolog.Logger) (Result, error) {
	reporter.Report("🔍 Discovering Wing…")
	dev, err := discovery.Probe(ctx, req.Console, e.DiscoveryPort, e.DiscoveryTimeout)
	if err != nil {
		return Result{}, err
	}
	log.Info().Interface("device", dev).Msg("console discovered")
	reporter.Report("🟢 Wing discovered")

	t, err := OpenTransport(ctx, TransportConfig{
		Console:      req.Console,
		Recorder:     req.Recorder,
		LocalPort:    e.LocalPort,
		ConsolePort:  e.ConsolePort,
		RecorderPort: e.RecorderPort,
	})
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = t.Close() }()

	reporter.Report(fmt.Sprintf("🟢 OSC server ready on port %d", t.Port()))

	var (
		res     Result
		replies = make(chan wingosc.Reply, 2*wingosc.ChannelCount(req.Source))
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return t.Serve(gctx, wingosc.Decoder{Source: req.Source}, replies, log)
	})
	g.Go(func() error {
		defer func() { _ = t.Close() }()

		sess := NewSession(SessionConfig{
			Source:       req.Source,
			PollInterval: e.PollInterval,
			Deadline:     e.Deadline,
		}, t, reporter, log)

		var err error
		res, err = sess.Run(gctx, replies)
		return err
	})
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func (req TransferRequest) validate() error {
	if req.Console == "" {
		return errors.New("console address is required")
	}
	if req.Recorder == "" {
		return errors.New("recorder address is required")
	}
	if req.Source == "" {
		return errors.New("source group is required")
	}
	return nil
}
