package sliceset_test

import (
	"testing"

	"github.com/ubilog/ubilog/foundation/blockchain/block"
	"github.com/ubilog/ubilog/foundation/blockchain/sliceset"
)

func TestEmptyContainsNothing(t *testing.T) {
	s := sliceset.Empty()
	if s.Contains(block.HashSlice([]byte("x"))) {
		t.Fatalf("empty set should contain nothing")
	}
}

func TestInsertAndContains(t *testing.T) {
	s := sliceset.Empty()
	h := block.HashSlice([]byte("hello"))
	s2 := s.Insert(h)

	if s.Contains(h) {
		t.Fatalf("original set mutated by Insert")
	}
	if !s2.Contains(h) {
		t.Fatalf("new set should contain inserted hash")
	}
}

func TestInsertManyContainsAll(t *testing.T) {
	s := sliceset.Empty()
	var hashes []block.Hash
	for i := 0; i < 200; i++ {
		h := block.HashSlice([]byte{byte(i), byte(i >> 8)})
		hashes = append(hashes, h)
		s = s.Insert(h)
	}

	for _, h := range hashes {
		if !s.Contains(h) {
			t.Fatalf("set missing hash %s after bulk insert", h)
		}
	}

	if s.Contains(block.HashSlice([]byte("not present"))) {
		t.Fatalf("set falsely reports containment")
	}
}

func TestInsertSameHashTwiceIsNoop(t *testing.T) {
	h := block.HashSlice([]byte("dup"))
	s := sliceset.Empty().Insert(h)
	s2 := s.Insert(h)

	if !s2.Contains(h) {
		t.Fatalf("set should still contain hash after duplicate insert")
	}
}

func TestUnionAddsAllSlices(t *testing.T) {
	body := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	s := sliceset.Empty().Union(body)

	for _, sl := range body {
		if !s.Contains(block.HashSlice(sl)) {
			t.Fatalf("union missing slice %q", sl)
		}
	}
}

func TestChildSetSharesParentStructure(t *testing.T) {
	parent := sliceset.Empty().Union([][]byte{[]byte("parent-slice-1"), []byte("parent-slice-2")})
	child := parent.Union([][]byte{[]byte("child-slice")})

	if !child.Contains(block.HashSlice([]byte("parent-slice-1"))) {
		t.Fatalf("child set should contain inherited parent slice")
	}
	if parent.Contains(block.HashSlice([]byte("child-slice"))) {
		t.Fatalf("parent set should not see child's own slice")
	}
}
