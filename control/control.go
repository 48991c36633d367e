// Package control lets a hosting shell drive wingsync over OSC.
//
// The shell sends commands to the control port and receives progress as
// AddressLog messages on the port it sent from.
package control

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/scgolang/osc"
	"golang.org/x/sync/errgroup"

	"github.com/scgolang/wingsync/namesync"
	"github.com/scgolang/wingsync/recorder"
)

// Control addresses.
const (
	AddressTransfer    = "/wingsync/transfer"     // console, recorder, group
	AddressRecordStart = "/wingsync/record/start" // recorder
	AddressRecordStop  = "/wingsync/record/stop"  // recorder
	AddressLog         = "/wingsync/log"          // line
)

// Transferer runs transfers.
type Transferer interface {
	Transfer(ctx context.Context, req namesync.TransferRequest, reporter namesync.Reporter) (namesync.Result, error)
}

// ServerConfig contains configuration for a control server.
type ServerConfig struct {
	Addr         string
	RecorderPort int
}

// Server runs a control server.
type Server struct {
	ServerConfig

	conn   *osc.UDPConn
	ctx    context.Context
	engine Transferer
	log    zerolog.Logger

	startRecording func(ctx context.Context, host string, port int) error
	stopRecording  func(ctx context.Context, host string, port int) error

	transfers sync.WaitGroup
}

// NewServer creates a new control server.
func NewServer(config ServerConfig, engine Transferer, log zerolog.Logger) *Server {
	return &Server{
		ServerConfig:   config,
		ctx:            context.Background(),
		engine:         engine,
		log:            log,
		startRecording: recorder.StartRecording,
		stopRecording:  recorder.StopRecording,
	}
}

// Listen binds the control port.
func (srv *Server) Listen(ctx context.Context) error {
	laddr, err := net.ResolveUDPAddr("udp", srv.Addr)
	if err != nil {
		return errors.Wrap(err, "resolving listen address")
	}
	conn, err := osc.ListenUDPContext(ctx, "udp", laddr)
	if err != nil {
		return errors.Wrap(err, "creating OSC server")
	}
	srv.conn = conn
	srv.ctx = ctx
	return nil
}

// LocalAddr returns the bound control address.
func (srv *Server) LocalAddr() net.Addr {
	return srv.conn.LocalAddr()
}

// Serve handles commands until ctx is done. Listen must be called first.
func (srv *Server) Serve(ctx context.Context) error {
	if srv.conn == nil {
		return errors.New("OSC connection has not been initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return srv.conn.Close()
	})
	g.Go(func() error {
		err := srv.conn.Serve(1, osc.PatternMatching{
			AddressTransfer:    osc.Method(srv.HandleTransfer),
			AddressRecordStart: osc.Method(srv.HandleRecordStart),
			AddressRecordStop:  osc.Method(srv.HandleRecordStop),
		})
		if gctx.Err() != nil {
			return nil
		}
		if err == nil {
			err = errors.New("control server stopped")
		}
		return errors.Wrap(err, "serving control messages")
	})
	err := g.Wait()
	srv.transfers.Wait()
	return err
}

// Run listens on the control port and serves until ctx is done.
func (srv *Server) Run(ctx context.Context) error {
	if err := srv.Listen(ctx); err != nil {
		return err
	}
	srv.log.Info().Str("addr", srv.LocalAddr().String()).Msg("control server listening")
	return srv.Serve(ctx)
}

// HandleTransfer starts a transfer in the background. Progress goes back to
// the sender.
func (srv *Server) HandleTransfer(m osc.Message) error {
	args, err := readStrings(m, 3)
	if err != nil {
		srv.reply(m.Sender, "❌ Error: "+err.Error())
		return nil
	}
	req := namesync.TransferRequest{Console: args[0], Recorder: args[1], Source: args[2]}
	to := m.Sender

	srv.transfers.Add(1)
	go func() {
		defer srv.transfers.Done()

		reporter := namesync.ReporterFunc(func(line string) { srv.reply(to, line) })
		if _, err := srv.engine.Transfer(srv.ctx, req, reporter); err != nil {
			srv.log.Debug().Err(err).Msg("transfer ended with error")
		}
	}()
	return nil
}

// HandleRecordStart starts recording on the recorder named in m.
func (srv *Server) HandleRecordStart(m osc.Message) error {
	return srv.record(m, "Starting", srv.startRecording)
}

// HandleRecordStop stops recording on the recorder named in m.
func (srv *Server) HandleRecordStop(m osc.Message) error {
	return srv.record(m, "Stopping", srv.stopRecording)
}

func (srv *Server) record(m osc.Message, verb string, send func(context.Context, string, int) error) error {
	args, err := readStrings(m, 1)
	if err != nil {
		srv.reply(m.Sender, "❌ Error: "+err.Error())
		return nil
	}
	srv.reply(m.Sender, fmt.Sprintf("→ %s recording... LiveTrax=%s", verb, args[0]))

	if err := send(srv.ctx, args[0], srv.RecorderPort); err != nil {
		srv.log.Error().Err(err).Str("recorder", args[0]).Msg("recorder command failed")
		srv.reply(m.Sender, "❌ Error: "+err.Error())
	}
	return nil
}

// reply sends a log line to addr. Lines to a sender that went away are
// dropped.
func (srv *Server) reply(addr net.Addr, line string) {
	if addr == nil {
		srv.log.Info().Msg(line)
		return
	}
	if err := srv.conn.SendTo(addr, osc.Message{
		Address:   AddressLog,
		Arguments: osc.Arguments{osc.String(line)},
	}); err != nil {
		srv.log.Warn().Err(err).Str("to", addr.String()).Msg("sending log line")
	}
}

func readStrings(m osc.Message, n int) ([]string, error) {
	if len(m.Arguments) < n {
		return nil, errors.Errorf("%s: expected %d argument(s), got %d", m.Address, n, len(m.Arguments))
	}
	out := make([]string, n)
	for i := range out {
		s, err := m.Arguments[i].ReadString()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: reading argument %d", m.Address, i)
		}
		out[i] = s
	}
	return out, nil
}
