package state

import (
	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/params"
)

// RebuildBody recomputes next_block_body from the live mempool heap and
// the tip's mined_slices set (spec.md §4.F). Called whenever the tip
// advances.
//
// Grounded on the teacher's mempool.PickBest call site in
// state.MineNewBlock, generalized from "take N by strategy" to "peek the
// top slice; pop-and-discard if already mined, stop if it doesn't fit,
// else pop-and-choose". This pops destructively from the real mempool, not
// a snapshot, so that already-mined slices are permanently discarded while
// a slice that caused an early stop — and everything behind it — is left
// untouched in the heap for the next rebuild, exactly as spec.md §4.F/§9
// describes (including the open question's flagged loss of any slice that
// was popped-and-discarded this round purely because it had already been
// incorporated upstream).
func (s *State) RebuildBody() {
	tipHash, _ := s.chain.Tip()
	mined, _ := s.chain.GetMinedSlices(tipHash)

	// bytesRemaining mirrors spec.md's bits_remaining = BODY_SIZE*8-1,
	// adapted to the byte-granular body encoding block.go documents:
	// one terminator byte instead of one terminator bit.
	bytesRemaining := params.BodySize - 1

	var chosen [][]byte
	for {
		item, ok := s.mempool.Peek()
		if !ok {
			break
		}

		if mined != nil && mined.Contains(block.HashSlice(item.Slice)) {
			s.mempool.Pop()
			continue
		}

		cost := 1 + 4 + len(item.Slice) // continuation byte + length prefix + payload
		if cost > bytesRemaining {
			break
		}

		s.mempool.Pop()
		chosen = append(chosen, item.Slice)
		bytesRemaining -= cost
	}

	s.mu.Lock()
	s.body = chosen
	s.mu.Unlock()
}

// Body returns the current candidate block body.
func (s *State) Body() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.body))
	copy(out, s.body)
	return out
}
