package namesync

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/scgolang/osc"

	"github.com/scgolang/wingsync/recorder"
	"github.com/scgolang/wingsync/wingosc"
)

func TestTransportServeDropsMalformedDatagrams(t *testing.T) {
	ctx := context.Background()

	tr, err := OpenTransport(ctx, TransportConfig{
		Console:      "127.0.0.1",
		Recorder:     "127.0.0.1",
		LocalPort:    0,
		ConsolePort:  wingosc.ConsolePort,
		RecorderPort: recorder.Port,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tr.Close() }()

	var (
		replies = make(chan wingosc.Reply, 4)
		served  = make(chan error, 1)
	)
	go func() {
		served <- tr.Serve(ctx, wingosc.Decoder{Source: "USB"}, replies, zerolog.Nop())
	}()

	to := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: tr.Port()}
	for _, junk := range [][]byte{
		[]byte("hello, not osc"),
		{0x00, 0x01, 0x02, 0x03},
	} {
		sendRaw(to, junk)
	}

	client, err := osc.DialUDPContext(ctx, "udp", nil, to)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Send(osc.Message{
		Address:   "/io/out/USB/3/grp",
		Arguments: osc.Arguments{osc.String("A")},
	}); err != nil {
		t.Fatal(err)
	}

	select {
	case reply := <-replies:
		if reply.Kind != wingosc.GroupReply || reply.Output != 3 || reply.Value != "A" {
			t.Errorf("reply = %+v", reply)
		}
	case err := <-served:
		t.Fatalf("Serve returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reply")
	}

	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve after Close = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
	if _, ok := <-replies; ok {
		t.Error("replies not closed")
	}
}
