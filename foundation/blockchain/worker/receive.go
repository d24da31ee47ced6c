package worker

import (
	"context"
	"time"

	"github.com/ubilog/ubilog/foundation/blockchain/params"
	"github.com/ubilog/ubilog/foundation/blockchain/transport"
)

// receiveOperations runs the 64 Hz receiver task that drains datagrams
// off the UDP socket and dispatches them into state (spec.md §4.J names
// this cadence "receiver"). The transport's own Receive loop runs on its
// own goroutine feeding a channel; this task is the consumer that applies
// spec.md §5's ordering guarantee that messages are processed in arrival
// order on the transport.
func (w *Worker) receiveOperations(ctx context.Context) {
	w.evHandler("worker: receiveOperations: started")
	defer w.evHandler("worker: receiveOperations: completed")

	datagrams := make(chan transport.Datagram, 256)
	go w.conn.Receive(ctx, datagrams)

	ticker := newTicker(params.ReceiverInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.drainPending(datagrams)
		case d := <-datagrams:
			w.dispatchOne(d)
		case <-w.shut:
			return
		case <-ctx.Done():
			return
		}
	}
}

// drainPending dispatches every datagram already queued without blocking,
// so a burst of arrivals doesn't wait for the next tick.
func (w *Worker) drainPending(datagrams <-chan transport.Datagram) {
	for {
		select {
		case d := <-datagrams:
			w.dispatchOne(d)
		default:
			return
		}
	}
}

func (w *Worker) dispatchOne(d transport.Datagram) {
	now := time.Now().UnixMilli()
	w.state.Dispatch(d.From, d.Msg, now)
}
