// Package block defines Ubilog's core data model: the 256-bit Hash, the
// Block itself, and the keccak256-based hashing functions spec.md §4.A
// names directly. Hashing is grounded on the teacher's
// foundation/blockchain/signature.Hash/stamp pair, which reaches for
// github.com/ethereum/go-ethereum/crypto.Keccak256 for exactly this kind of
// domain-separated hashing; Ubilog reuses that same primitive instead of
// crypto/sha256 because the wire protocol is specified in terms of
// keccak256.
package block

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Hash is a 256-bit digest. The zero value is ZeroHash, the sentinel for
// "no predecessor" and for the genesis block's own hash.
type Hash [32]byte

// ZeroHash denotes "no predecessor" (spec.md §3).
var ZeroHash Hash

// String renders the hash as a lowercase hex string for logs.
func (h Hash) String() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 64)
	for i, b := range h {
		buf[i*2] = hexDigits[b>>4]
		buf[i*2+1] = hexDigits[b&0x0f]
	}
	return string(buf)
}

// Less provides a total order on hashes, used only to make test output and
// map iteration comparisons deterministic; it carries no protocol meaning.
func (h Hash) Less(o Hash) bool {
	for i := range h {
		if h[i] != o[i] {
			return h[i] < o[i]
		}
	}
	return false
}

// Block is a proposal extending the chain, linked by Prev. Time packs the
// miner's millisecond wall-clock timestamp into its high 64 bits and the
// PoW nonce into its low 192 bits (spec.md §3). Body is the ordered list of
// slices that make up this block's payload.
type Block struct {
	Prev Hash
	Time *uint256.Int
	Body [][]byte
}

// Genesis is the unique block with Prev = ZeroHash, Time = 0, Body = nil.
// Its hash is defined to be ZeroHash (spec.md §3), enforced by Hash()'s
// short-circuit below rather than by actually hashing this value.
func Genesis() Block {
	return Block{
		Prev: ZeroHash,
		Time: uint256.NewInt(0),
	}
}

// TimestampMS extracts the miner's wall-clock timestamp from Time's high
// 64 bits.
func (b Block) TimestampMS() uint64 {
	return new(uint256.Int).Rsh(b.Time, 192).Uint64()
}

// nonceMask is 2^192-1, the low-192-bit mask isolating the PoW nonce.
var nonceMask = func() *uint256.Int {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), 192)
	return m.Sub(m, uint256.NewInt(1))
}()

// Nonce192 extracts the low 192 bits of Time, the PoW nonce material.
func (b Block) Nonce192() *uint256.Int {
	return new(uint256.Int).And(b.Time, nonceMask)
}

// PackTime composes a Time value from a millisecond timestamp and a
// 192-bit-or-narrower nonce, as the miner does when proposing a candidate.
func PackTime(timestampMS uint64, low192 *uint256.Int) *uint256.Int {
	hi := new(uint256.Int).Lsh(uint256.NewInt(timestampMS), 192)
	return new(uint256.Int).Or(hi, new(uint256.Int).And(low192, nonceMask))
}

// Hash returns the block's hash per spec.md §4.A: the genesis short-circuit
// returns ZeroHash, and every other block hashes
// keccak256(be32(prev) || be32(time) || serialize(body)).
func (b Block) Hash() Hash {
	if b.Prev == ZeroHash && (b.Time == nil || b.Time.IsZero()) {
		return ZeroHash
	}

	data := make([]byte, 0, 64+bodyEncodedLen(b.Body))
	data = append(data, b.Prev[:]...)

	t := b.Time
	if t == nil {
		t = uint256.NewInt(0)
	}
	tb := t.Bytes32()
	data = append(data, tb[:]...)

	data = append(data, encodeBody(b.Body)...)

	return Hash(crypto.Keccak256Hash(data))
}

// Numeric interprets a hash as a big-endian unsigned 256-bit integer, the
// form every target comparison uses.
func (h Hash) Numeric() *uint256.Int {
	return new(uint256.Int).SetBytes(h[:])
}

// HashSlice returns keccak256(serialize(slice)), spec.md §4.A's
// hash_pow_slice.
func HashSlice(s []byte) Hash {
	return Hash(crypto.Keccak256Hash(encodeSlice(s)))
}

// =============================================================================
// Body serialization.
//
// spec.md §6 specifies the wire body encoding at bit granularity: each
// slice is its bit-string preceded by a continuation bit, the list
// terminated by a zero bit. The bit-level codec itself is explicitly listed
// among the core's out-of-scope external collaborators (spec.md §1); this
// package only needs *a* deterministic, self-delimiting encoding so that
// Hash() is a pure function of a block's contents and so blocks round-trip
// through storage and the network. Ubilog implements that encoding at byte
// granularity — a continuation byte plus a 4-byte length prefix per slice —
// which preserves the same "continue/terminate" shape spec.md describes
// without requiring a true sub-byte bit writer, a simplification documented
// in DESIGN.md.

func encodeSlice(s []byte) []byte {
	buf := make([]byte, 4+len(s))
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	copy(buf[4:], s)
	return buf
}

func encodeBody(slices [][]byte) []byte {
	var buf []byte
	for _, s := range slices {
		buf = append(buf, 1)
		buf = append(buf, encodeSlice(s)...)
	}
	buf = append(buf, 0)
	return buf
}

func bodyEncodedLen(slices [][]byte) int {
	n := 1
	for _, s := range slices {
		n += 1 + 4 + len(s)
	}
	return n
}

// EncodedBodySize returns the number of bytes Body would occupy on the
// wire, the quantity the body builder (spec.md §4.F) bounds against
// params.BodySize.
func EncodedBodySize(slices [][]byte) int {
	return bodyEncodedLen(slices)
}
