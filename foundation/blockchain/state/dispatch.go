package state

import (
	"github.com/ubilog/ubilog/foundation/blockchain/peer"
	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

// Dispatch routes one inbound message to ingestion, the mempool, or the
// peer table per spec.md §4.H. Unknown senders are not filtered; there is
// no authentication, per spec.md §4.H's closing note.
//
// Grounded on the teacher's state.State methods that sit behind its HTTP
// handlers (AddKnownPeer, UpsertMempool, and the block-propose path) —
// here collapsed into one dispatch entry point, since Ubilog's transport
// is message-tagged UDP rather than per-verb HTTP routes.
func (s *State) Dispatch(from wire.Addr, m wire.Message, now int64) {
	switch m.Tag {
	case wire.TagPutPeers:
		for _, addr := range m.Peers {
			s.peers.Upsert(addr, now)
		}

	case wire.TagPutBlock:
		tipUpdated := s.chain.HandleBlock(m.Block, now)
		if tipUpdated && s.mine {
			s.RebuildBody()
		}

	case wire.TagAskBlock:
		if b, ok := s.chain.GetBlock(m.Hash); ok {
			s.sendTo(from, wire.Message{Tag: wire.TagPutBlock, Block: b})
		}

	case wire.TagPutSlice:
		s.mempool.Insert(m.Slice)
	}
}

// sendTo is a thin wrapper over the transport, tolerant of a nil
// connection (e.g. during tests that never call AttachConn).
func (s *State) sendTo(addr wire.Addr, m wire.Message) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Send(addr, m); err != nil {
		s.evHandler("state: sendTo: %s: ERROR: %s", addr, err)
	}
}

// KnownPeerAddrs returns the peer table's addresses for gossip fan-out.
func (s *State) KnownPeerAddrs() []peer.Peer {
	return s.peers.All()
}
