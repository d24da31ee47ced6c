package worker

import (
	"context"

	"github.com/ubilog/ubilog/foundation/blockchain/params"
)

// gossipOperations runs the 1 Hz tip-broadcast task (spec.md §4.G).
//
// Grounded on the teacher's worker/peer.go runPeersOperation ticker
// goroutine shape, retargeted from HTTP peer-status polling to a UDP
// tip broadcast.
func (w *Worker) gossipOperations(ctx context.Context) {
	w.evHandler("worker: gossipOperations: started")
	defer w.evHandler("worker: gossipOperations: completed")

	ticker := newTicker(params.GossipInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.isShutdown() {
				w.state.GossipTip()
			}
		case <-w.shut:
			return
		case <-ctx.Done():
			return
		}
	}
}

// requestOperations runs the 32 Hz orphan-parent requester task
// (spec.md §4.G).
func (w *Worker) requestOperations(ctx context.Context) {
	w.evHandler("worker: requestOperations: started")
	defer w.evHandler("worker: requestOperations: completed")

	ticker := newTicker(params.RequestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.isShutdown() {
				w.state.RequestMissingParents()
			}
		case <-w.shut:
			return
		case <-ctx.Done():
			return
		}
	}
}
