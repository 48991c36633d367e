package namesync

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/scgolang/osc"

	"github.com/scgolang/wingsync/recorder"
	"github.com/scgolang/wingsync/wingosc"
)

// readBufferSize holds the largest UDP payload.
const readBufferSize = 65535

// TransportConfig says where the transport listens and sends.
type TransportConfig struct {
	Console      string
	Recorder     string
	LocalPort    int
	ConsolePort  int
	RecorderPort int
}

// Transport owns the reply listener and the console and recorder senders
// of one transfer.
type Transport struct {
	listener *osc.UDPConn
	console  *osc.UDPConn
	recorder *recorder.Client

	port   int
	prefix string

	closeOnce sync.Once
	closed    chan struct{}
	closeErr  error
}

// OpenTransport binds the reply listener and connects both senders. The
// listener is bound before OpenTransport returns, so no reply to a later
// query can be lost.
func OpenTransport(ctx context.Context, config TransportConfig) (*Transport, error) {
	t := &Transport{closed: make(chan struct{})}

	laddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort("0.0.0.0", strconv.Itoa(config.LocalPort)))
	if err != nil {
		return nil, &wingosc.TransportError{Op: "resolving listen address", Err: err}
	}
	if t.listener, err = osc.ListenUDPContext(ctx, "udp", laddr); err != nil {
		return nil, &wingosc.TransportError{Op: "creating OSC server", Err: err}
	}
	t.port = t.listener.LocalAddr().(*net.UDPAddr).Port
	t.prefix = wingosc.Prefix(t.port)

	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(config.Console, strconv.Itoa(config.ConsolePort)))
	if err != nil {
		_ = t.Close()
		return nil, &wingosc.TransportError{Op: "resolving console address", Err: err}
	}
	if t.console, err = osc.DialUDPContext(ctx, "udp", nil, raddr); err != nil {
		_ = t.Close()
		return nil, &wingosc.TransportError{Op: "connecting to console", Err: err}
	}
	if t.recorder, err = recorder.Dial(ctx, config.Recorder, config.RecorderPort); err != nil {
		_ = t.Close()
		return nil, &wingosc.TransportError{Op: "connecting to recorder", Err: errors.Cause(err)}
	}
	return t, nil
}

// Port returns the port the reply listener is bound to.
func (t *Transport) Port() int {
	return t.port
}

// Query sends msg to the console with the reply-routing prefix.
func (t *Transport) Query(msg osc.Message) error {
	return t.console.Send(wingosc.WithPrefix(t.prefix, msg))
}

// RenameStrip sends a strip name to the recorder.
func (t *Transport) RenameStrip(index int, name string) error {
	return t.recorder.RenameStrip(index, name)
}

// Serve decodes console replies onto replies until the transport is
// closed. replies is closed when Serve returns. Datagrams that are not OSC
// are logged and dropped; only socket errors end Serve early.
func (t *Transport) Serve(ctx context.Context, decoder wingosc.Decoder, replies chan<- wingosc.Reply, log zerolog.Logger) error {
	defer close(replies)

	d := &replyDispatcher{
		ctx:     ctx,
		closed:  t.closed,
		decoder: decoder,
		replies: replies,
		log:     log,
	}
	data := make([]byte, readBufferSize)
	for {
		n, sender, err := t.listener.ReadFromUDP(data)
		if err != nil {
			select {
			case <-t.closed:
				return nil
			default:
			}
			if ctx.Err() != nil {
				return nil
			}
			return &wingosc.TransportError{Op: "reading console replies", Err: err}
		}
		if err := d.handle(data[:n], sender); err != nil {
			log.Warn().Err(err).Str("from", sender.String()).Msg("dropping datagram")
		}
	}
}

// Close closes all three endpoints. Only the first call does anything.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)

		var errs []error
		if t.listener != nil {
			errs = append(errs, t.listener.Close())
		}
		if t.console != nil {
			errs = append(errs, t.console.Close())
		}
		if t.recorder != nil {
			errs = append(errs, t.recorder.Close())
		}
		for _, err := range errs {
			if err != nil && t.closeErr == nil {
				t.closeErr = errors.Wrap(err, "closing transport")
			}
		}
	})
	return t.closeErr
}

// replyDispatcher is an osc.Dispatcher that decodes every message instead
// of matching it against registered methods.
type replyDispatcher struct {
	ctx     context.Context
	closed  <-chan struct{}
	decoder wingosc.Decoder
	replies chan<- wingosc.Reply
	log     zerolog.Logger
}

// handle parses one datagram and invokes every message in it.
func (d *replyDispatcher) handle(data []byte, sender net.Addr) error {
	if len(data) == 0 {
		return errors.New("empty datagram")
	}
	switch data[0] {
	case '/':
		msg, err := osc.ParseMessage(data, sender)
		if err != nil {
			return errors.Wrap(err, "parsing message")
		}
		return d.Invoke(msg, false)
	case '#':
		bundle, err := osc.ParseBundle(data, sender)
		if err != nil {
			return errors.Wrap(err, "parsing bundle")
		}
		return d.Dispatch(bundle, false)
	default:
		return errors.Errorf("not an OSC packet (starts with %q)", data[0])
	}
}

// Dispatch invokes every message in b.
func (d *replyDispatcher) Dispatch(b osc.Bundle, exactMatch bool) error {
	for _, p := range b.Packets {
		switch v := p.(type) {
		case osc.Message:
			if err := d.Invoke(v, exactMatch); err != nil {
				return err
			}
		case osc.Bundle:
			if err := d.Dispatch(v, exactMatch); err != nil {
				return err
			}
		}
	}
	return nil
}

// Invoke decodes msg and forwards it to the session. Malformed replies are
// logged and dropped.
func (d *replyDispatcher) Invoke(msg osc.Message, _ bool) error {
	reply, err := d.decoder.Decode(msg)
	if err == wingosc.ErrUnknownAddress {
		d.log.Debug().Str("address", msg.Address).Msg("ignoring reply")
		return nil
	}
	if err != nil {
		d.log.Warn().Err(err).Msg("dropping malformed reply")
		return nil
	}
	select {
	case d.replies <- reply:
	case <-d.closed:
	case <-d.ctx.Done():
	}
	return nil
}
