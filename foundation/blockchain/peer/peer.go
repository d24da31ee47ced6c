// Package peer maintains the peer table (spec.md §4.G): the set of known
// network addresses and when each was last heard from, with no eviction.
//
// Grounded on the teacher's foundation/blockchain/peer.PeerSet: the same
// sync.RWMutex-guarded map shape and Add/Remove/Copy API, generalized from
// a bare Host string to an address-plus-seen_at record, since spec.md's
// peer table tracks last-seen time rather than just membership.
package peer

import (
	"sync"

	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

// Peer is one entry in the peer table: an address and the last time any
// message was received from it, in Unix milliseconds.
type Peer struct {
	Addr   wire.Addr
	SeenAt int64
}

// Set is the concurrency-safe peer table, keyed by the address's string
// form so that two wire.Addr values naming the same endpoint collide.
type Set struct {
	mu  sync.RWMutex
	set map[string]Peer
}

// NewSet constructs an empty peer table.
func NewSet() *Set {
	return &Set{set: make(map[string]Peer)}
}

// Upsert inserts addr if absent or refreshes its seen_at if present,
// per spec.md §4.H's PutPeers handling ("upsert each... with seen_at =
// now"). Returns true if addr was not previously known.
func (s *Set) Upsert(addr wire.Addr, now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := addr.String()
	_, existed := s.set[key]
	s.set[key] = Peer{Addr: addr, SeenAt: now}
	return !existed
}

// All returns every known peer, in no particular order.
func (s *Set) All() []Peer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Peer, 0, len(s.set))
	for _, p := range s.set {
		out = append(out, p)
	}
	return out
}

// Addrs returns every known peer's address, for gossip/broadcast fan-out.
func (s *Set) Addrs() []wire.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]wire.Addr, 0, len(s.set))
	for _, p := range s.set {
		out = append(out, p.Addr)
	}
	return out
}

// Count reports the number of known peers.
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.set)
}

// Contains reports whether addr is already known.
func (s *Set) Contains(addr wire.Addr) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[addr.String()]
	return ok
}
