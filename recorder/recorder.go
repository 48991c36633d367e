// Package recorder sends control messages to a LiveTrax recorder.
package recorder

import (
	"context"
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/scgolang/osc"
)

// Port is the recorder's OSC port.
const Port = 3819

// Recorder addresses.
const (
	AddressStripName     = "/strip/name"
	AddressAccessAction  = "/access_action"
	AddressTransportStop = "/transport_stop"

	ActionCrashRecord = "Transport/crash-record"
)

// Client is a connection to a recorder.
type Client struct {
	conn *osc.UDPConn
}

// Dial connects to the recorder at host:port.
func Dial(ctx context.Context, host string, port int) (*Client, error) {
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrap(err, "resolving recorder address")
	}
	conn, err := osc.DialUDPContext(ctx, "udp", nil, raddr)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to recorder")
	}
	return &Client{conn: conn}, nil
}

// RenameStrip sets the name of strip index.
func (c *Client) RenameStrip(index int, name string) error {
	return errors.Wrapf(c.conn.Send(StripName(index, name)), "renaming strip %d", index)
}

// StartRecording arms and starts the recorder transport.
func (c *Client) StartRecording() error {
	return errors.Wrap(c.conn.Send(CrashRecord()), "sending crash-record")
}

// StopRecording stops the recorder transport.
func (c *Client) StopRecording() error {
	return errors.Wrap(c.conn.Send(TransportStop()), "sending transport stop")
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// StripName builds a strip rename message.
func StripName(index int, name string) osc.Message {
	return osc.Message{
		Address: AddressStripName,
		Arguments: osc.Arguments{
			osc.Int(int32(index)),
			osc.String(name),
		},
	}
}

// CrashRecord builds the message that starts recording.
func CrashRecord() osc.Message {
	return osc.Message{
		Address:   AddressAccessAction,
		Arguments: osc.Arguments{osc.String(ActionCrashRecord)},
	}
}

// TransportStop builds the message that stops the transport.
func TransportStop() osc.Message {
	return osc.Message{Address: AddressTransportStop}
}

// StartRecording dials the recorder, starts recording and hangs up.
func StartRecording(ctx context.Context, host string, port int) error {
	return oneShot(ctx, host, port, (*Client).StartRecording)
}

// StopRecording dials the recorder, stops the transport and hangs up.
func StopRecording(ctx context.Context, host string, port int) error {
	return oneShot(ctx, host, port, (*Client).StopRecording)
}

func oneShot(ctx context.Context, host string, port int, send func(*Client) error) error {
	c, err := Dial(ctx, host, port)
	if err != nil {
		return err
	}
	if err := send(c); err != nil {
		_ = c.Close()
		return err
	}
	return c.Close()
}
