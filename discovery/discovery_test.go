package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/scgolang/wingsync/wingosc"
)

// fakeConsole answers the first datagram it receives with reply.
func fakeConsole(t *testing.T, reply string) int {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, 64)
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil || string(buf[:n]) != "WING?" || reply == "" {
			return
		}
		_, _ = conn.WriteToUDP([]byte(reply), addr)
	}()
	return conn.LocalAddr().(*net.UDPAddr).Port
}

func TestProbe(t *testing.T) {
	port := fakeConsole(t, "WING,192.168.1.20,FOH,ngc-full,S123,3.0.5")

	dev, err := Probe(context.Background(), "127.0.0.1", port, time.Second)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	want := Device{IP: "192.168.1.20", Name: "FOH", Model: "ngc-full", Serial: "S123", Firmware: "3.0.5"}
	if dev != want {
		t.Errorf("device = %+v, want %+v", dev, want)
	}
}

func TestProbeUnexpectedDevice(t *testing.T) {
	port := fakeConsole(t, "X32,192.168.1.20")

	_, err := Probe(context.Background(), "127.0.0.1", port, time.Second)
	var ude *UnexpectedDeviceError
	if !errors.As(err, &ude) {
		t.Fatalf("expected UnexpectedDeviceError, got %v", err)
	}
	if ude.Reply != "X32,192.168.1.20" {
		t.Errorf("reply = %q", ude.Reply)
	}
}

func TestProbeTimeout(t *testing.T) {
	port := fakeConsole(t, "")

	start := time.Now()
	_, err := Probe(context.Background(), "127.0.0.1", port, 50*time.Millisecond)
	if err != ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(start) > time.Second {
		t.Error("probe did not honor timeout")
	}
}

func TestProbeCancelled(t *testing.T) {
	port := fakeConsole(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	if _, err := Probe(ctx, "127.0.0.1", port, 5*time.Second); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestParseReplyTagOnly(t *testing.T) {
	dev, err := ParseReply([]byte("WING"))
	if err != nil {
		t.Fatal(err)
	}
	if dev != (Device{}) {
		t.Errorf("device = %+v", dev)
	}
}

func TestProbeTransportError(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
	}{
		{name: "port out of range", host: "127.0.0.1", port: 70000},
		{name: "negative port", host: "127.0.0.1", port: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Probe(context.Background(), tt.host, tt.port, 50*time.Millisecond)
			var te *wingosc.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("err = %v (%T), want *wingosc.TransportError", err, err)
			}
			if te.Op != "resolving console address" {
				t.Errorf("Op = %q", te.Op)
			}
		})
	}
}
