package state_test

import (
	"os"
	"testing"

	"github.com/ubilog/ubilog/foundation/blockchain/state"
)

func TestSaveLongestChainWritesOneFilePerHeight(t *testing.T) {
	dir, err := os.MkdirTemp("", "ubilog-save-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	defer os.RemoveAll(dir)

	s, err := state.New(state.Config{BasePath: dir, Mine: true})
	if err != nil {
		t.Fatalf("state.New: %s", err)
	}

	for !s.RunMiningBatch() {
	}

	s.SaveLongestChain()

	entries, err := os.ReadDir(dir + "/data/blocks")
	if err != nil {
		t.Fatalf("ReadDir blocks: %s", err)
	}
	if len(entries) != 2 {
		t.Fatalf("blocks dir has %d entries, want 2 (genesis + mined block)", len(entries))
	}
}

func TestLoadChainReplaysSavedBlocks(t *testing.T) {
	dir, err := os.MkdirTemp("", "ubilog-load-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	defer os.RemoveAll(dir)

	s1, err := state.New(state.Config{BasePath: dir, Mine: true})
	if err != nil {
		t.Fatalf("state.New: %s", err)
	}
	for !s1.RunMiningBatch() {
	}
	s1.SaveLongestChain()

	wantTip, wantWork := s1.Chain().Tip()

	s2, err := state.New(state.Config{BasePath: dir})
	if err != nil {
		t.Fatalf("state.New (reload): %s", err)
	}
	if err := s2.LoadChain(); err != nil {
		t.Fatalf("LoadChain: %s", err)
	}

	gotTip, gotWork := s2.Chain().Tip()
	if gotTip != wantTip {
		t.Fatalf("reloaded tip = %s, want %s", gotTip, wantTip)
	}
	if gotWork.Cmp(wantWork) != 0 {
		t.Fatalf("reloaded work = %s, want %s", gotWork, wantWork)
	}
}
