// Package transport owns the node's UDP socket for its entire lifetime
// (spec.md §5's "the UDP socket is opened once and owned for the node's
// lifetime"). It is a thin wrapper that turns datagrams into wire.Message
// values and back, leaving the codec itself to the wire package.
//
// The teacher has no UDP code — it's an HTTP-only blockchain node — so
// this package borrows the teacher's http.Server lifecycle shape (open
// once in New/Listen, defer Close, a single accept/receive loop) and
// re-targets it at net.UDPConn, the natural stdlib primitive for this
// job; none of the retrieved examples reach for a third-party UDP or
// packet-transport library.
package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/ubilog/ubilog/foundation/blockchain/wire"
)

// Conn is a bound UDP socket that can send and receive wire.Message
// datagrams.
type Conn struct {
	conn *net.UDPConn
}

// Listen opens a UDP socket bound to the given port, on every local
// address, for the node's lifetime.
func Listen(port uint16) (*Conn, error) {
	addr := &net.UDPAddr{Port: int(port)}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen on port %d: %w", port, err)
	}
	return &Conn{conn: conn}, nil
}

// Close releases the socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// LocalAddr returns the socket's bound local address, useful when Listen
// was called with port 0 and the kernel assigned one.
func (c *Conn) LocalAddr() wire.Addr {
	addr := c.conn.LocalAddr().(*net.UDPAddr)
	return wire.Addr{IP: addr.IP, Port: uint16(addr.Port)}
}

// Send encodes m and writes it as a single datagram to addr.
func (c *Conn) Send(addr wire.Addr, m wire.Message) error {
	data := wire.Encode(m)
	udpAddr := &net.UDPAddr{IP: addr.IP, Port: int(addr.Port)}

	if _, err := c.conn.WriteToUDP(data, udpAddr); err != nil {
		return fmt.Errorf("transport: send to %s: %w", addr, err)
	}
	return nil
}

// Broadcast sends m to every address in addrs, continuing past individual
// send failures since a single unreachable peer must never block gossip
// to the rest (spec.md §7's preference for silent drop over propagating
// network-sourced failures).
func (c *Conn) Broadcast(addrs []wire.Addr, m wire.Message) {
	for _, addr := range addrs {
		c.Send(addr, m)
	}
}

// Datagram is one received, decoded message paired with its sender.
type Datagram struct {
	From wire.Addr
	Msg  wire.Message
}

// maxDatagramSize comfortably exceeds BODY_SIZE plus message framing
// overhead, bounding the receive buffer without risking truncation.
const maxDatagramSize = 65536

// Receive runs the receive loop, decoding each datagram and sending it to
// out until ctx is cancelled or the socket errors. Malformed datagrams are
// dropped per spec.md §7 rule 3 and do not stop the loop.
func (c *Conn) Receive(ctx context.Context, out chan<- Datagram) error {
	buf := make([]byte, maxDatagramSize)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, raddr, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return fmt.Errorf("transport: receive: %w", err)
		}

		m, err := wire.Decode(buf[:n])
		if err != nil {
			continue
		}

		from := wire.Addr{IP: raddr.IP, Port: uint16(raddr.Port)}
		select {
		case out <- Datagram{From: from, Msg: m}:
		case <-ctx.Done():
			return nil
		}
	}
}
