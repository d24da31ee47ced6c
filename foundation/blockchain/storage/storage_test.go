package storage_test

import (
	"os"
	"testing"

	"github.com/holiman/uint256"
	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/storage"
)

func TestWriteReadBlockRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "ubilog-storage-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	defer os.RemoveAll(dir)

	d, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}

	b := block.Block{
		Prev: block.Hash{1, 2, 3},
		Time: uint256.NewInt(42),
		Body: [][]byte{[]byte("payload")},
	}

	if err := d.WriteBlock(7, b); err != nil {
		t.Fatalf("WriteBlock: %s", err)
	}

	got, err := d.ReadBlock(7)
	if err != nil {
		t.Fatalf("ReadBlock: %s", err)
	}
	if got.Prev != b.Prev {
		t.Fatalf("prev mismatch: got %s, want %s", got.Prev, b.Prev)
	}
	if len(got.Body) != 1 || string(got.Body[0]) != "payload" {
		t.Fatalf("body mismatch: got %v", got.Body)
	}
}

func TestWriteReadMinedRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "ubilog-storage-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	defer os.RemoveAll(dir)

	d, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}

	hash := [32]byte{9, 9, 9}
	if err := d.WriteMined(hash, 123456789); err != nil {
		t.Fatalf("WriteMined: %s", err)
	}

	got, err := d.ReadMined(hash)
	if err != nil {
		t.Fatalf("ReadMined: %s", err)
	}
	if got != 123456789 {
		t.Fatalf("ReadMined = %d, want 123456789", got)
	}
}

func TestIteratorWalksInHeightOrder(t *testing.T) {
	dir, err := os.MkdirTemp("", "ubilog-storage-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	defer os.RemoveAll(dir)

	d, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}

	for h := uint64(0); h < 3; h++ {
		b := block.Block{
			Prev: block.Hash{byte(h)},
			Time: uint256.NewInt(h + 1),
		}
		if err := d.WriteBlock(h, b); err != nil {
			t.Fatalf("WriteBlock(%d): %s", h, err)
		}
	}

	it := d.ForEach()
	var got []uint64
	for {
		b, err := it.Next()
		if it.Done() {
			break
		}
		if err != nil {
			t.Fatalf("Next: %s", err)
		}
		got = append(got, b.Time.Uint64())
	}

	if len(got) != 3 {
		t.Fatalf("iterated %d blocks, want 3", len(got))
	}
	for i, v := range got {
		if v != uint64(i+1) {
			t.Fatalf("got[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestReadMissingBlockErrors(t *testing.T) {
	dir, err := os.MkdirTemp("", "ubilog-storage-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	defer os.RemoveAll(dir)

	d, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("Open: %s", err)
	}

	if _, err := d.ReadBlock(99); err == nil {
		t.Fatalf("ReadBlock of missing height should error")
	}
}
