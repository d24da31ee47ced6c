// Package wire implements Ubilog's UDP wire protocol (spec.md §6): the
// four message tags (PutPeers, PutBlock, AskBlock, PutSlice) and the Block
// serialization they carry. Grounded on the teacher's explicit
// serialize/deserialize boundary functions (database/storage.go's
// BlockFS <-> Block conversion, storage/storage.go's NewBlock/ToDatabaseBlock)
// generalized from JSON-over-HTTP to a compact binary codec, since spec.md
// requires one datagram per message rather than a JSON document.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/holiman/uint256"
	"github.com/ubilog/ubilog/foundation/blockchain/block"
)

// ErrMalformed is returned for any datagram that fails to decode. Per
// spec.md §7 rule 3, callers drop the datagram and move on; they never
// treat this as fatal.
var ErrMalformed = errors.New("wire: malformed datagram")

// Tag identifies which of the four message variants a datagram carries.
type Tag byte

// The four message tags spec.md §6 defines. The spec describes these as
// 4-bit values; Ubilog encodes them in a full byte (see block.go's doc
// comment on the analogous body-encoding simplification) since nothing
// else shares the byte and a nibble buys nothing but decode complexity.
const (
	TagPutPeers Tag = 0
	TagPutBlock Tag = 1
	TagAskBlock Tag = 2
	TagPutSlice Tag = 3
)

// Addr is a peer network address: an IP (v4 or v6) plus a port.
type Addr struct {
	IP   net.IP
	Port uint16
}

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.IP, a.Port)
}

// Message is the decoded form of any one of the four wire variants. Exactly
// one of the typed fields is meaningful, selected by Tag.
type Message struct {
	Tag Tag

	Peers []Addr      // TagPutPeers
	Block block.Block // TagPutBlock
	Hash  block.Hash  // TagAskBlock
	Slice []byte      // TagPutSlice
}

// Encode serializes a Message into a single datagram payload.
func Encode(m Message) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(m.Tag))

	switch m.Tag {
	case TagPutPeers:
		writeUint32(&buf, uint32(len(m.Peers)))
		for _, a := range m.Peers {
			encodeAddr(&buf, a)
		}

	case TagPutBlock:
		encodeBlock(&buf, m.Block)

	case TagAskBlock:
		buf.Write(m.Hash[:])

	case TagPutSlice:
		writeLenPrefixed(&buf, m.Slice)
	}

	return buf.Bytes()
}

// Decode parses a datagram payload into a Message. Any structural problem
// (short buffer, bad length, unknown tag) yields ErrMalformed so the caller
// can drop the datagram without disturbing any state, per spec.md §7.
func Decode(data []byte) (Message, error) {
	if len(data) < 1 {
		return Message{}, ErrMalformed
	}

	r := bytes.NewReader(data[1:])
	m := Message{Tag: Tag(data[0])}

	var err error
	switch m.Tag {
	case TagPutPeers:
		var n uint32
		if n, err = readUint32(r); err != nil {
			return Message{}, ErrMalformed
		}
		m.Peers = make([]Addr, 0, n)
		for i := uint32(0); i < n; i++ {
			a, err := decodeAddr(r)
			if err != nil {
				return Message{}, ErrMalformed
			}
			m.Peers = append(m.Peers, a)
		}

	case TagPutBlock:
		b, err := decodeBlock(r)
		if err != nil {
			return Message{}, ErrMalformed
		}
		m.Block = b

	case TagAskBlock:
		var h block.Hash
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return Message{}, ErrMalformed
		}
		m.Hash = h

	case TagPutSlice:
		s, err := readLenPrefixed(r)
		if err != nil {
			return Message{}, ErrMalformed
		}
		m.Slice = s

	default:
		return Message{}, ErrMalformed
	}

	return m, nil
}

// =============================================================================
// Block encoding: prev (256 bits) || time (256 bits) || body.

func encodeBlock(buf *bytes.Buffer, b block.Block) {
	buf.Write(b.Prev[:])

	t := b.Time
	if t == nil {
		t = uint256.NewInt(0)
	}
	tb := t.Bytes32()
	buf.Write(tb[:])

	for _, s := range b.Body {
		buf.WriteByte(1)
		writeLenPrefixed(buf, s)
	}
	buf.WriteByte(0)
}

func decodeBlock(r *bytes.Reader) (block.Block, error) {
	var prev block.Hash
	if _, err := io.ReadFull(r, prev[:]); err != nil {
		return block.Block{}, err
	}

	var tb [32]byte
	if _, err := io.ReadFull(r, tb[:]); err != nil {
		return block.Block{}, err
	}
	t := new(uint256.Int).SetBytes(tb[:])

	var body [][]byte
	for {
		cont, err := r.ReadByte()
		if err != nil {
			return block.Block{}, err
		}
		if cont == 0 {
			break
		}
		s, err := readLenPrefixed(r)
		if err != nil {
			return block.Block{}, err
		}
		body = append(body, s)
	}

	return block.Block{Prev: prev, Time: t, Body: body}, nil
}

// EncodeBlock/DecodeBlock expose the block codec directly for storage.
func EncodeBlock(b block.Block) []byte {
	var buf bytes.Buffer
	encodeBlock(&buf, b)
	return buf.Bytes()
}

func DecodeBlock(data []byte) (block.Block, error) {
	b, err := decodeBlock(bytes.NewReader(data))
	if err != nil {
		return block.Block{}, ErrMalformed
	}
	return b, nil
}

// =============================================================================
// Address encoding: ip_family (1 byte: 4 or 6), ip bytes, u16 port.

func encodeAddr(buf *bytes.Buffer, a Addr) {
	ip4 := a.IP.To4()
	if ip4 != nil {
		buf.WriteByte(4)
		buf.Write(ip4)
	} else {
		buf.WriteByte(6)
		buf.Write(a.IP.To16())
	}
	writeUint16(buf, a.Port)
}

func decodeAddr(r *bytes.Reader) (Addr, error) {
	family, err := r.ReadByte()
	if err != nil {
		return Addr{}, err
	}

	size := 4
	if family == 6 {
		size = 16
	}
	ipBytes := make([]byte, size)
	if _, err := io.ReadFull(r, ipBytes); err != nil {
		return Addr{}, err
	}

	port, err := readUint16(r)
	if err != nil {
		return Addr{}, err
	}

	return Addr{IP: net.IP(ipBytes), Port: port}, nil
}

// =============================================================================
// Primitive helpers.

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeLenPrefixed(buf *bytes.Buffer, s []byte) {
	writeUint32(buf, uint32(len(s)))
	buf.Write(s)
}

func readLenPrefixed(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	s := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
