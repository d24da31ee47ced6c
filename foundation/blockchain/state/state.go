// Package state is the core API for Ubilog's node: the single façade that
// owns the chain store, mempool, peer table, pending body, and persistence
// handle, and that every node task (scheduler tick, inbound datagram, HTTP
// status handler) calls through.
//
// Grounded on the teacher's foundation/blockchain/state.State: the same
// role (one struct gluing together the chain/mempool/peer packages,
// constructed once in New, with an EventHandler callback threaded through
// every operation for logging) generalized from the account/transaction
// domain to the block-tree/slice domain. spec.md §5 specifies a
// single-threaded cooperative scheduler; this Go realization keeps the
// teacher's own divergence instead — a mutex-guarded façade serializing
// mutations while scheduler tasks run on separate goroutines — recorded as
// a deliberate choice in SPEC_FULL.md §5.
package state

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/ubilog/ubilog/foundation/blockchain/chain"
	"github.com/ubilog/ubilog/foundation/blockchain/mempool"
	"github.com/ubilog/ubilog/foundation/blockchain/numeric"
	"github.com/ubilog/ubilog/foundation/blockchain/params"
	"github.com/ubilog/ubilog/foundation/blockchain/peer"
	"github.com/ubilog/ubilog/foundation/blockchain/storage"
	"github.com/ubilog/ubilog/foundation/blockchain/transport"
)

// EventHandler is called for every notable event in the node's
// processing, the same shape as the teacher's own logging callback.
type EventHandler func(v string, args ...any)

// Config bundles everything New needs to construct a State.
type Config struct {
	BasePath  string
	SecretKey uint64
	Mine      bool
	Peers     []peer.Peer
	EvHandler EventHandler
}

// State is the node's single mutable-state façade.
type State struct {
	mu sync.Mutex

	secretKey uint64
	mine      bool
	evHandler EventHandler

	chain   *chain.Store
	mempool *mempool.Mempool
	peers   *peer.Set
	disk    *storage.Disk
	conn    *transport.Conn

	body       [][]byte
	minedCnt   uint64
	listenPort uint16
}

// New constructs a State with a fresh chain seeded at INITIAL_DIFFICULTY
// and an empty mempool/body/peer table, opening the on-disk store.
func New(cfg Config) (*State, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	disk, err := storage.Open(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	initialTarget := numeric.ComputeTarget(numeric.ToBig(uint256.NewInt(params.InitialDifficulty)))

	s := &State{
		secretKey: cfg.SecretKey,
		mine:      cfg.Mine,
		evHandler: ev,
		chain:     chain.New(initialTarget),
		mempool:   mempool.New(),
		peers:     peer.NewSet(),
		disk:      disk,
	}

	for _, p := range cfg.Peers {
		s.peers.Upsert(p.Addr, p.SeenAt)
	}

	return s, nil
}

// AttachConn gives the state a transport to send outbound messages on,
// set once at node startup after the socket is bound.
func (s *State) AttachConn(conn *transport.Conn, listenPort uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
	s.listenPort = listenPort
}

// Chain exposes the read-only chain accessors (GetBlock/GetTarget/
// GetLongestChain) to callers like the HTTP status handler and display task.
func (s *State) Chain() *chain.Store {
	return s.chain
}

// Peers exposes the peer table for the gossip/requester scheduler tasks.
func (s *State) Peers() *peer.Set {
	return s.peers
}

// MinedCount returns how many blocks this node has locally mined.
func (s *State) MinedCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minedCnt
}

// MempoolCount reports how many payload slices are currently pending.
func (s *State) MempoolCount() int {
	return s.mempool.Count()
}

// MiningEnabled reports whether this node runs the miner.
func (s *State) MiningEnabled() bool {
	return s.mine
}

// Shutdown releases the node's resources.
func (s *State) Shutdown() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
