// Package discovery finds a WING console on the network.
package discovery

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/scgolang/wingsync/wingosc"
)

// DefaultTimeout is how long Probe waits for a reply.
const DefaultTimeout = 2 * time.Second

// ErrTimeout is returned when the console does not answer in time.
var ErrTimeout = errors.New("discovery timed out")

// UnexpectedDeviceError is returned when something answered the probe
// that is not a WING.
type UnexpectedDeviceError struct {
	Reply string
}

func (e *UnexpectedDeviceError) Error() string {
	return "bad response: " + e.Reply
}

// Device describes a discovered console.
// The reply is "WING,<ip>,<name>,<model>,<serial>,<firmware>".
type Device struct {
	IP       string
	Name     string
	Model    string
	Serial   string
	Firmware string
}

// ParseReply validates a discovery reply.
func ParseReply(b []byte) (Device, error) {
	fields := strings.Split(string(b), ",")
	if fields[0] != wingosc.DeviceTag {
		return Device{}, &UnexpectedDeviceError{Reply: string(b)}
	}
	var dev Device
	for i, dst := range []*string{&dev.IP, &dev.Name, &dev.Model, &dev.Serial, &dev.Firmware} {
		if i+1 < len(fields) {
			*dst = strings.TrimSpace(fields[i+1])
		}
	}
	return dev, nil
}

// Probe sends the identification request to host on port and waits up to
// timeout for the first reply. It does not retry.
func Probe(ctx context.Context, host string, port int, timeout time.Duration) (Device, error) {
	raddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return Device{}, &wingosc.TransportError{Op: "resolving console address", Err: err}
	}
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return Device{}, &wingosc.TransportError{Op: "opening discovery socket", Err: err}
	}
	defer func() { _ = conn.Close() }()

	// Unblock the read if ctx is cancelled first.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Device{}, &wingosc.TransportError{Op: "setting read deadline", Err: err}
	}
	if _, err := conn.WriteToUDP([]byte(wingosc.DiscoveryRequest), raddr); err != nil {
		return Device{}, &wingosc.TransportError{Op: "sending discovery request", Err: err}
	}

	buf := make([]byte, 512)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		if ctx.Err() != nil {
			return Device{}, ctx.Err()
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return Device{}, ErrTimeout
		}
		return Device{}, &wingosc.TransportError{Op: "reading discovery reply", Err: err}
	}
	return ParseReply(buf[:n])
}
