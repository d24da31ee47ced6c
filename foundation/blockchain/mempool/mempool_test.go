package mempool_test

import (
	"testing"

	"github.com/ubilog/ubilog/foundation/blockchain/mempool"
)

func TestEmptyMempool(t *testing.T) {
	m := mempool.New()
	if got := m.Count(); got != 0 {
		t.Fatalf("Count() = %d, want 0", got)
	}
	if _, ok := m.Peek(); ok {
		t.Fatalf("Peek() on empty mempool should report false")
	}
	if _, ok := m.Pop(); ok {
		t.Fatalf("Pop() on empty mempool should report false")
	}
}

func TestInsertIncreasesCount(t *testing.T) {
	m := mempool.New()
	m.Insert([]byte("one"))
	m.Insert([]byte("two"))
	m.Insert([]byte("three"))

	if got := m.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
}

func TestDuplicateSlicesAllowed(t *testing.T) {
	m := mempool.New()
	m.Insert([]byte("dup"))
	m.Insert([]byte("dup"))

	if got := m.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2 (duplicates must be permitted)", got)
	}
}

func TestPopReturnsHighestScoreFirst(t *testing.T) {
	m := mempool.New()
	slices := [][]byte{
		[]byte("alpha"), []byte("bravo"), []byte("charlie"),
		[]byte("delta"), []byte("echo"), []byte("foxtrot"),
	}
	for _, s := range slices {
		m.Insert(s)
	}

	first, ok := m.Peek()
	if !ok {
		t.Fatalf("Peek() on non-empty mempool should report true")
	}
	prevScore := first.Score
	count := 0
	for {
		item, ok := m.Pop()
		if !ok {
			break
		}
		if item.Score.Cmp(prevScore) > 0 {
			t.Fatalf("heap order violated: popped score %s greater than previous %s", item.Score, prevScore)
		}
		prevScore = item.Score
		count++
	}
	if count != len(slices) {
		t.Fatalf("popped %d items, want %d", count, len(slices))
	}
}

func TestSnapshotDoesNotMutateHeap(t *testing.T) {
	m := mempool.New()
	m.Insert([]byte("one"))
	m.Insert([]byte("two"))
	m.Insert([]byte("three"))

	snap := m.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Snapshot() returned %d items, want 3", len(snap))
	}
	if got := m.Count(); got != 3 {
		t.Fatalf("Count() after Snapshot() = %d, want 3 (Snapshot must not mutate)", got)
	}
}

func TestSnapshotOrderedByScoreDescending(t *testing.T) {
	m := mempool.New()
	for _, s := range [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")} {
		m.Insert(s)
	}

	snap := m.Snapshot()
	for i := 1; i < len(snap); i++ {
		if snap[i].Score.Cmp(snap[i-1].Score) > 0 {
			t.Fatalf("Snapshot() not sorted descending at index %d", i)
		}
	}
}
