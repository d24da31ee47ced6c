// Package mempool implements the ordered pool of pending payload slices
// (spec.md §4.B): a max-heap keyed by slice score, where score is
// difficulty(keccak256(serialize(slice))) — a rarer hash sorts higher.
// Duplicate slices are permitted on insert; deduplication against a
// block's mined_slices set is the body builder's job, not the mempool's.
//
// Grounded on the teacher's foundation/blockchain/mempool.Mempool: the same
// construction/locking shape (a struct wrapping the container, guarded by
// a mutex, exposing Count/Insert-style methods) generalized from a
// nonce-grouped-per-account map to a score-ordered heap, since slices carry
// no account or nonce to group by.
package mempool

import (
	"container/heap"
	"math/big"
	"sync"

	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/numeric"
)

// Item is one pending slice together with its computed score.
type Item struct {
	Slice []byte
	Score *big.Int
}

// heapSlice is a container/heap.Interface over Item, ordered so the
// highest score sorts first — a max-heap built on the stdlib min-heap by
// inverting Less.
type heapSlice []Item

func (h heapSlice) Len() int            { return len(h) }
func (h heapSlice) Less(i, j int) bool  { return h[i].Score.Cmp(h[j].Score) > 0 }
func (h heapSlice) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *heapSlice) Push(x interface{}) { *h = append(*h, x.(Item)) }
func (h *heapSlice) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Mempool is a concurrency-safe max-heap of scored slices.
type Mempool struct {
	mu sync.Mutex
	h  heapSlice
}

// New constructs an empty mempool.
func New() *Mempool {
	m := &Mempool{}
	heap.Init(&m.h)
	return m
}

// Insert computes a slice's score and pushes it onto the heap. Duplicate
// slices are allowed; spec.md §4.B makes this the body builder's problem.
func (m *Mempool) Insert(slice []byte) {
	h := block.HashSlice(slice)
	score := numeric.Difficulty(numeric.Numeric(h))

	m.mu.Lock()
	defer m.mu.Unlock()
	heap.Push(&m.h, Item{Slice: slice, Score: score})
}

// Peek returns the highest-scored item without removing it, and whether
// the mempool was non-empty.
func (m *Mempool) Peek() (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.h) == 0 {
		return Item{}, false
	}
	return m.h[0], true
}

// Pop removes and returns the highest-scored item.
func (m *Mempool) Pop() (Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.h) == 0 {
		return Item{}, false
	}
	return heap.Pop(&m.h).(Item), true
}

// Count reports the number of pending slices.
func (m *Mempool) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.h)
}

// Snapshot returns every item currently queued, highest score first,
// without mutating the heap. General read access for callers that must
// not disturb pending slices, such as diagnostics.
func (m *Mempool) Snapshot() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(heapSlice, len(m.h))
	copy(out, m.h)
	heap.Init(&out)

	items := make([]Item, 0, len(out))
	for out.Len() > 0 {
		items = append(items, heap.Pop(&out).(Item))
	}
	return items
}
