package transport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/transport"
	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

func TestSendReceiveRoundTrip(t *testing.T) {
	receiver, err := transport.Listen(0)
	if err != nil {
		t.Fatalf("Listen: %s", err)
	}
	defer receiver.Close()

	sender, err := transport.Listen(0)
	if err != nil {
		t.Fatalf("Listen: %s", err)
	}
	defer sender.Close()

	out := make(chan transport.Datagram, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go receiver.Receive(ctx, out)

	dest := wire.Addr{IP: net.ParseIP("127.0.0.1"), Port: receiver.LocalAddr().Port}
	msg := wire.Message{Tag: wire.TagAskBlock, Hash: block.Hash{7, 7, 7}}

	if err := sender.Send(dest, msg); err != nil {
		t.Fatalf("Send: %s", err)
	}

	select {
	case got := <-out:
		if got.Msg.Tag != wire.TagAskBlock {
			t.Fatalf("got tag %v, want AskBlock", got.Msg.Tag)
		}
		if got.Msg.Hash != msg.Hash {
			t.Fatalf("hash mismatch: got %s, want %s", got.Msg.Hash, msg.Hash)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for datagram")
	}
}

func TestBroadcastContinuesPastUnreachablePeer(t *testing.T) {
	sender, err := transport.Listen(0)
	if err != nil {
		t.Fatalf("Listen: %s", err)
	}
	defer sender.Close()

	receiver, err := transport.Listen(0)
	if err != nil {
		t.Fatalf("Listen: %s", err)
	}
	defer receiver.Close()

	out := make(chan transport.Datagram, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go receiver.Receive(ctx, out)

	unreachable := wire.Addr{IP: net.ParseIP("127.0.0.1"), Port: 1}
	good := wire.Addr{IP: net.ParseIP("127.0.0.1"), Port: receiver.LocalAddr().Port}

	msg := wire.Message{Tag: wire.TagAskBlock, Hash: block.Hash{1}}
	sender.Broadcast([]wire.Addr{unreachable, good}, msg)

	select {
	case got := <-out:
		if got.Msg.Hash != msg.Hash {
			t.Fatalf("hash mismatch after broadcast with one unreachable peer")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for datagram to reachable peer")
	}
}
