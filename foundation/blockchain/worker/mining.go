package worker

import "context"

// miningOperations runs the self-rescheduling miner loop (spec.md §4.J):
// each attempt batch enqueues itself at zero delay, yielding to the other
// goroutines between batches via the channel select below.
//
// Grounded on the teacher's worker/mining.go miningOperations/
// runMiningOperation shape: a goroutine blocked on a signal channel,
// running one mining pass per signal and deciding whether to requeue.
func (w *Worker) miningOperations(ctx context.Context) {
	w.evHandler("worker: miningOperations: started")
	defer w.evHandler("worker: miningOperations: completed")

	for {
		select {
		case <-w.startMining:
			if w.isShutdown() {
				return
			}
			w.runMiningBatch()

		case <-w.shut:
			return

		case <-ctx.Done():
			return
		}
	}
}

// runMiningBatch runs one attempt batch and, regardless of outcome,
// requeues itself so the miner keeps searching — spec.md's "scheduler
// re-invokes immediately (cooperative yield)".
func (w *Worker) runMiningBatch() {
	found := w.state.RunMiningBatch()
	if found {
		w.evHandler("worker: runMiningBatch: mined a block")
	}

	if !w.isShutdown() {
		w.SignalStartMining()
	}
}
