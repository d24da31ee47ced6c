package state

import "github.com/ubilog/ubilog/foundation/blockchain/wire"

// GossipTip sends the current tip block to every known peer (spec.md
// §4.G's 1 Hz gossip task).
//
// Grounded on the teacher's NetSendBlockToPeers, generalized from an HTTP
// POST per peer to a single UDP broadcast fan-out.
func (s *State) GossipTip() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	tipHash, _ := s.chain.Tip()
	tipBlock, ok := s.chain.GetBlock(tipHash)
	if !ok {
		return
	}

	addrs := s.peers.Addrs()
	conn.Broadcast(addrs, wire.Message{Tag: wire.TagPutBlock, Block: tipBlock})
}

// RequestMissingParents broadcasts AskBlock for every hash that some
// orphan is waiting on but that is not yet admitted (spec.md §4.G's
// 32 Hz requester, using the corrected predicate discussed in
// SPEC_FULL.md §Open Questions rather than the literal never-fires
// predicate spec.md's pseudocode describes).
func (s *State) RequestMissingParents() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	addrs := s.peers.Addrs()
	if len(addrs) == 0 {
		return
	}

	for _, h := range s.chain.MissingParents() {
		conn.Broadcast(addrs, wire.Message{Tag: wire.TagAskBlock, Hash: h})
	}
}
