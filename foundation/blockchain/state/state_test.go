package state_test

import (
	"os"
	"testing"

	"github.com/ubilog/ubilog/foundation/blockchain/state"
)

func newTestState(t *testing.T) *state.State {
	dir, err := os.MkdirTemp("", "ubilog-state-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := state.New(state.Config{BasePath: dir, Mine: true})
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	return s
}

func TestNewStateStartsAtGenesis(t *testing.T) {
	s := newTestState(t)

	longest := s.Chain().GetLongestChain()
	if len(longest) != 1 {
		t.Fatalf("fresh state's longest chain length = %d, want 1 (genesis)", len(longest))
	}
}

func TestDispatchPutSliceInsertsIntoMempool(t *testing.T) {
	s := newTestState(t)

	s.Dispatch(zeroAddr(), putSliceMessage([]byte("hello")), 1000)
	s.RebuildBody()

	body := s.Body()
	if len(body) != 1 || string(body[0]) != "hello" {
		t.Fatalf("body after submitting one slice = %v, want [hello]", body)
	}
}

func TestSliceDedupAfterMining(t *testing.T) {
	s := newTestState(t)

	s.Dispatch(zeroAddr(), putSliceMessage([]byte("dedup-me")), 1000)
	s.RebuildBody()

	mined := s.RunMiningBatch()
	if !mined {
		t.Fatalf("RunMiningBatch should find a block quickly against INITIAL_DIFFICULTY")
	}

	// Resubmitting the same slice should not reappear in the next body,
	// since it is already present in the tip's mined_slices set.
	s.Dispatch(zeroAddr(), putSliceMessage([]byte("dedup-me")), 2000)
	s.RebuildBody()

	body := s.Body()
	for _, item := range body {
		if string(item) == "dedup-me" {
			t.Fatalf("already-mined slice should not reappear in rebuilt body")
		}
	}
}
