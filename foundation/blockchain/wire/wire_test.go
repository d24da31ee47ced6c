package wire_test

import (
	"net"
	"testing"

	"github.com/holiman/uint256"
	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

func TestRoundTripPutBlock(t *testing.T) {
	b := block.Block{
		Prev: block.Hash{1, 2, 3},
		Time: uint256.NewInt(123456),
		Body: [][]byte{[]byte("hello"), []byte("world")},
	}

	data := wire.Encode(wire.Message{Tag: wire.TagPutBlock, Block: b})

	got, err := wire.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}

	if got.Tag != wire.TagPutBlock {
		t.Fatalf("got tag %v, want PutBlock", got.Tag)
	}
	if got.Block.Prev != b.Prev {
		t.Fatalf("prev mismatch: got %s, want %s", got.Block.Prev, b.Prev)
	}
	if len(got.Block.Body) != 2 || string(got.Block.Body[0]) != "hello" || string(got.Block.Body[1]) != "world" {
		t.Fatalf("body mismatch: got %v", got.Block.Body)
	}
}

func TestRoundTripAskBlock(t *testing.T) {
	h := block.Hash{9, 9, 9}
	data := wire.Encode(wire.Message{Tag: wire.TagAskBlock, Hash: h})

	got, err := wire.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if got.Hash != h {
		t.Fatalf("hash mismatch: got %s, want %s", got.Hash, h)
	}
}

func TestRoundTripPutPeers(t *testing.T) {
	peers := []wire.Addr{
		{IP: net.ParseIP("127.0.0.1"), Port: 7946},
		{IP: net.ParseIP("::1"), Port: 8000},
	}
	data := wire.Encode(wire.Message{Tag: wire.TagPutPeers, Peers: peers})

	got, err := wire.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if len(got.Peers) != 2 {
		t.Fatalf("got %d peers, want 2", len(got.Peers))
	}
	if got.Peers[0].Port != 7946 || got.Peers[1].Port != 8000 {
		t.Fatalf("port mismatch: %+v", got.Peers)
	}
}

func TestRoundTripPutSlice(t *testing.T) {
	s := []byte("a pending slice")
	data := wire.Encode(wire.Message{Tag: wire.TagPutSlice, Slice: s})

	got, err := wire.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	if string(got.Slice) != string(s) {
		t.Fatalf("slice mismatch: got %q, want %q", got.Slice, s)
	}
}

func TestDecodeMalformedDropped(t *testing.T) {
	if _, err := wire.Decode(nil); err != wire.ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
	if _, err := wire.Decode([]byte{byte(wire.TagAskBlock)}); err != wire.ErrMalformed {
		t.Fatalf("got %v, want ErrMalformed for truncated AskBlock", err)
	}
}

func TestBlockHashGenesisIsZero(t *testing.T) {
	g := block.Genesis()
	if g.Hash() != block.ZeroHash {
		t.Fatalf("genesis hash = %s, want zero hash", g.Hash())
	}
}
