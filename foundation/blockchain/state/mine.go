package state

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/params"
)

// nonceMask is 2^192-1, isolating the low 192 bits of a packed nonce hash.
var nonceMask = func() *uint256.Int {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), 192)
	return m.Sub(m, uint256.NewInt(1))
}()

// secretShift raises the node's secret key into the high bits of the
// 256-bit nonce composition, spec.md §4.E's "nonce = (secret_key << 64) |
// rand".
const secretShift = 64

// RunMiningBatch runs up to params.MaxAttemptsPerBatch proof-of-work attempts
// against a candidate extending the current tip (spec.md §4.E). It
// returns true if a block was found, mined locally, and ingested; the
// scheduler re-invokes immediately on either outcome, the cooperative
// "self-yield" spec.md describes.
//
// Grounded on the teacher's worker/mining.go runMiningOperation and
// database/block.go's performPOW attempt-counter loop, generalized from
// transaction-selecting PoA-adjacent mining to a pure nonce search against
// a 256-bit target.
func (s *State) RunMiningBatch() bool {
	tipHash, _ := s.chain.Tip()
	tipTarget, ok := s.chain.GetTarget(tipHash)
	if !ok {
		return false
	}

	body := s.Body()

	for attempt := 0; attempt < params.MaxAttemptsPerBatch; attempt++ {
		randLow64, err := randomUint64()
		if err != nil {
			s.evHandler("state: RunMiningBatch: rand: ERROR: %s", err)
			return false
		}

		nonce := new(uint256.Int).Lsh(uint256.NewInt(s.secretKey), secretShift)
		nonce = nonce.Or(nonce, uint256.NewInt(randLow64))

		nonceBytes := nonce.Bytes32()
		digest := crypto.Keccak256(nonceBytes[:])
		low192 := new(uint256.Int).SetBytes(digest)
		low192 = low192.And(low192, nonceMask)

		nowMS := uint64(time.Now().UnixMilli())
		candidate := block.Block{
			Prev: tipHash,
			Time: block.PackTime(nowMS, low192),
			Body: body,
		}

		h := candidate.Hash()
		if numericGreater(h, tipTarget) {
			s.onBlockMined(candidate, randLow64)
			return true
		}
	}

	return false
}

func numericGreater(h block.Hash, target *uint256.Int) bool {
	return h.Numeric().Cmp(target) > 0
}

func (s *State) onBlockMined(b block.Block, randLow64 uint64) {
	h := b.Hash()
	now := time.Now().UnixMilli()

	s.chain.HandleBlock(b, now)

	if err := s.disk.WriteMined(h, randLow64); err != nil {
		s.evHandler("state: onBlockMined: WriteMined: %s: ERROR: %s", h, err)
	}

	s.mu.Lock()
	s.minedCnt++
	s.mu.Unlock()

	s.RebuildBody()
	s.evHandler("state: onBlockMined: mined block %s", h)
}

func randomUint64() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("state: randomUint64: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
