package state_test

import (
	"net"

	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

func zeroAddr() wire.Addr {
	return wire.Addr{IP: net.ParseIP("127.0.0.1"), Port: 7946}
}

func putSliceMessage(s []byte) wire.Message {
	return wire.Message{Tag: wire.TagPutSlice, Slice: s}
}
