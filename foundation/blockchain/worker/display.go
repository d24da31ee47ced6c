package worker

import (
	"context"
	"time"

	"github.com/ubilog/ubilog/foundation/blockchain/params"
)

// displayOperations runs the 1 Hz terminal status task, started after a
// 900 ms warm-up so the first tick doesn't race the other tasks' own
// startup (spec.md §4.J). Gated on the node's `display` config flag; when
// disabled the goroutine still runs (so Run's startup barrier and
// Shutdown's WaitGroup stay uniform across all five scheduler tasks) but
// prints nothing.
func (w *Worker) displayOperations(ctx context.Context) {
	w.evHandler("worker: displayOperations: started")
	defer w.evHandler("worker: displayOperations: completed")

	warmup := time.NewTimer(params.DisplayWarmupWait)
	defer warmup.Stop()

	select {
	case <-warmup.C:
	case <-w.shut:
		return
	case <-ctx.Done():
		return
	}

	ticker := newTicker(params.DisplayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if w.display && !w.isShutdown() {
				w.printStatus()
			}
		case <-w.shut:
			return
		case <-ctx.Done():
			return
		}
	}
}

// printStatus logs one line summarizing the node's chain tip, accumulated
// work, peer count, and local mining tally.
func (w *Worker) printStatus() {
	tip, work := w.state.Chain().Tip()
	height, _ := w.state.Chain().GetHeight(tip)

	w.evHandler("worker: display: height[%d] tip[%x] work[%s] peers[%d] mempool[%d] mined[%d]",
		height, tip, work.String(), w.state.Peers().Count(), w.state.MempoolCount(), w.state.MinedCount())
}
