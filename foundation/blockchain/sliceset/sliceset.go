// Package sliceset implements the persistent (structurally shared) set of
// slice hashes that backs each chain block's mined_slices value (spec.md §3
// invariant 4, §9 "persistent set of slices"). Every block's set must share
// structure with its parent's — inserting a block's own body into its
// parent's set must cost O(|body|), not O(height) — which rules out a plain
// copy-per-block map.
//
// None of the retrieved example repos carry a general-purpose persistent
// set (go-ethereum's trie package is a keyed Merkle-Patricia trie for state
// roots, a different shape entirely, and pulling in that whole subsystem
// for an unrelated purpose would be the kind of dependency cargo-culting
// the rest of this codebase avoids). This is a small hand-built hash-array-
// mapped trie, branching on nibbles of the slice's keccak256 hash, in the
// teacher's plain, no-generics, struct-and-pointer style.
package sliceset

import "github.com/ubilog/ubilog/foundation/blockchain/block"

const fanout = 16

// Set is an immutable set of slice hashes. The zero value is the empty set.
type Set struct {
	leaf     bool
	hash     block.Hash
	children [fanout]*Set
}

// Empty returns the empty set.
func Empty() *Set {
	return &Set{}
}

// Contains reports whether h is a member of the set.
func (s *Set) Contains(h block.Hash) bool {
	return s.lookup(h, 0)
}

func (s *Set) lookup(h block.Hash, depth int) bool {
	if s == nil {
		return false
	}
	if s.leaf {
		return s.hash == h
	}
	return s.children[nibble(h, depth)].lookup(h, depth+1)
}

// Insert returns a new set containing h and everything s contained,
// sharing as much structure with s as possible.
func (s *Set) Insert(h block.Hash) *Set {
	return s.insert(h, 0)
}

func (s *Set) insert(h block.Hash, depth int) *Set {
	if s == nil {
		return &Set{leaf: true, hash: h}
	}

	if s.leaf {
		if s.hash == h {
			return s
		}
		// Split this leaf into an interior node, placing the existing hash
		// at its nibble before descending to insert h.
		interior := &Set{}
		interior.children[nibble(s.hash, depth)] = &Set{leaf: true, hash: s.hash}
		return interior.insert(h, depth)
	}

	idx := nibble(h, depth)
	existing := s.children[idx]
	updated := existing.insert(h, depth+1)
	if updated == existing {
		return s
	}

	next := &Set{children: s.children}
	next.children[idx] = updated
	return next
}

func nibble(h block.Hash, depth int) int {
	byteIdx := depth / 2
	if byteIdx >= len(h) {
		// Exhausted all 64 nibbles of a 256-bit hash: collisions at this
		// depth are cryptographically negligible, so fold back to depth 0.
		byteIdx = byteIdx % len(h)
	}
	if depth%2 == 0 {
		return int(h[byteIdx] >> 4)
	}
	return int(h[byteIdx] & 0x0f)
}

// Union returns a new set containing every hash in s plus every hash in
// the given slices, keccak256-hashed first. This is the operation chain
// ingestion uses to compute mined_slices[h] = mined_slices[prev(h)] ∪
// set(block[h].body).
func (s *Set) Union(slices [][]byte) *Set {
	out := s
	for _, sl := range slices {
		out = out.Insert(block.HashSlice(sl))
	}
	return out
}
