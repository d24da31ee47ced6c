package peer_test

import (
	"net"
	"testing"

	"github.com/ubilog/ubilog/foundation/blockchain/peer"
	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		addrs []wire.Addr
	}

	tt := []table{
		{
			name: "basic",
			addrs: []wire.Addr{
				{IP: net.ParseIP("10.0.0.1"), Port: 7946},
				{IP: net.ParseIP("10.0.0.2"), Port: 7946},
				{IP: net.ParseIP("10.0.0.3"), Port: 7946},
			},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewSet()

			for _, addr := range tst.addrs {
				if !ps.Upsert(addr, 1) {
					t.Fatalf("Test %s:\tfirst upsert of %s should report new", tst.name, addr)
				}
			}

			if got := ps.Count(); got != len(tst.addrs) {
				t.Logf("Test %s:\tgot: %d", tst.name, got)
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.addrs))
				t.Fatalf("Test %s:\tShould get back the right number of peers.", tst.name)
			}

			for _, addr := range tst.addrs {
				if !ps.Contains(addr) {
					t.Fatalf("Test %s:\tContains(%s) should be true", tst.name, addr)
				}
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_UpsertRefreshesSeenAt(t *testing.T) {
	ps := peer.NewSet()
	addr := wire.Addr{IP: net.ParseIP("10.0.0.1"), Port: 7946}

	if !ps.Upsert(addr, 100) {
		t.Fatalf("first Upsert should report new")
	}
	if ps.Upsert(addr, 200) {
		t.Fatalf("second Upsert of known addr should report not-new")
	}

	all := ps.All()
	if len(all) != 1 {
		t.Fatalf("got %d peers, want 1", len(all))
	}
	if all[0].SeenAt != 200 {
		t.Fatalf("SeenAt = %d, want 200 (refreshed)", all[0].SeenAt)
	}
}

func Test_AddrsMatchesAll(t *testing.T) {
	ps := peer.NewSet()
	a1 := wire.Addr{IP: net.ParseIP("10.0.0.1"), Port: 7946}
	a2 := wire.Addr{IP: net.ParseIP("10.0.0.2"), Port: 7946}
	ps.Upsert(a1, 1)
	ps.Upsert(a2, 1)

	addrs := ps.Addrs()
	if len(addrs) != 2 {
		t.Fatalf("got %d addrs, want 2", len(addrs))
	}
}
