package worker

import (
	"context"

	"github.com/ubilog/ubilog/foundation/blockchain/params"
)

// saveOperations runs the 0.033 Hz (every 30 s) saver task: walk the
// current longest chain and rewrite each file under blocks/ (spec.md
// §4.I/§4.J).
//
// Grounded on the teacher's periodic-ticker goroutine shape, driving
// storage.Disk instead of the teacher's account-balance persistence.
func (w *Worker) saveOperations(ctx context.Context) {
	w.evHandler("worker: saveOperations: started")
	defer w.evHandler("worker: saveOperations: completed")

	ticker := newTicker(params.SaverInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.isShutdown() {
				w.state.SaveLongestChain()
			}
		case <-w.shut:
			return
		case <-ctx.Done():
			return
		}
	}
}
