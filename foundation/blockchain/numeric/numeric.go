// Package numeric implements the fixed-width integer and hash algebra that
// underlies proof-of-work difficulty: conversions between a 256-bit target
// and its implied difficulty, and the periodic retarget formula.
//
// Targets and hash values fit naturally in 256 bits and are carried as
// github.com/holiman/uint256.Int, the same 256-bit type go-ethereum (and
// therefore the teacher this package is grounded on) uses throughout its
// own consensus code. Difficulty and work, however, are computed against a
// numerator of exactly 2^256 — one bit wider than any fixed 256-bit type can
// hold — so those intermediate computations use math/big, the only type
// with the necessary extra bit of precision, and are handed back to callers
// as *big.Int.
package numeric

import (
	"math/big"

	"github.com/holiman/uint256"
)

// two256 is 2^256, the numerator of the difficulty formula. It deliberately
// does not fit in a uint256.Int (whose max value is 2^256-1).
var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// maxU256 is 2^256-1, the largest value a uint256.Int can represent.
var maxU256 = new(big.Int).Sub(two256, big.NewInt(1))

// ToBig converts a 256-bit value to a big.Int.
func ToBig(v *uint256.Int) *big.Int {
	return v.ToBig()
}

// FromBig converts a big.Int known to fit in [0, 2^256-1] to a uint256.Int.
// Values outside that range are clamped, since callers only ever pass
// difficulty-formula outputs that are mathematically guaranteed to fit.
func FromBig(v *big.Int) *uint256.Int {
	if v.Sign() <= 0 {
		return uint256.NewInt(0)
	}
	if v.Cmp(maxU256) > 0 {
		v = maxU256
	}
	u, _ := uint256.FromBig(v)
	return u
}

// Difficulty returns 2^256 / (2^256 - x) for a 256-bit value x (a target or
// a hash interpreted as a big-endian unsigned integer). The zero value
// carries no work: Difficulty(0) is defined to be 0, matching spec.md §3
// invariant 3's "difficulty(h) = ... else 0" clause.
func Difficulty(x *uint256.Int) *big.Int {
	if x.IsZero() {
		return big.NewInt(0)
	}

	denom := new(big.Int).Sub(two256, ToBig(x))
	return new(big.Int).Div(two256, denom)
}

// ComputeTarget is the inverse of Difficulty: given a difficulty value,
// returns the target whose Difficulty() is (approximately, by integer
// division) that value.
func ComputeTarget(difficulty *big.Int) *uint256.Int {
	if difficulty.Sign() <= 0 {
		return uint256.NewInt(0)
	}

	quotient := new(big.Int).Div(two256, difficulty)
	target := new(big.Int).Sub(two256, quotient)
	return FromBig(target)
}

// Scale computes floor(2^32 * timePerPeriod / observed), the multiplier fed
// into NextTarget. observed and timePerPeriod are both in milliseconds.
func Scale(timePerPeriod, observed int64) uint64 {
	if observed <= 0 {
		observed = 1
	}

	num := new(big.Int).Lsh(big.NewInt(timePerPeriod), 32)
	scale := new(big.Int).Div(num, big.NewInt(observed))
	return scale.Uint64()
}

// NextTarget implements spec.md §4.A's retarget formula: the next
// difficulty is 1 + (d*scale - 1) / 2^32 where d is the current target's
// difficulty, and the returned target is ComputeTarget of that difficulty.
func NextTarget(prevTarget *uint256.Int, scale uint64) *uint256.Int {
	d := Difficulty(prevTarget)

	scaled := new(big.Int).Mul(d, new(big.Int).SetUint64(scale))
	scaled.Sub(scaled, big.NewInt(1))
	scaled.Rsh(scaled, 32)
	nextDifficulty := new(big.Int).Add(scaled, big.NewInt(1))

	return ComputeTarget(nextDifficulty)
}

// Numeric interprets a 32-byte hash as a big-endian unsigned 256-bit
// integer, the representation every comparison against a target uses.
func Numeric(hash [32]byte) *uint256.Int {
	return new(uint256.Int).SetBytes(hash[:])
}
