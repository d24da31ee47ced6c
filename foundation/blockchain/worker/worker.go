// Package worker drives Ubilog's periodic scheduler (spec.md §4.J): fixed-
// cadence gossip/request/receiver/save/display tasks plus a
// self-rescheduling miner loop, each running on its own goroutine against
// the shared state.State façade.
//
// Grounded on the teacher's Worker struct: a ticker plus a shut channel
// plus a WaitGroup startup barrier, one goroutine per named operation. The
// teacher drives one ticker shared by all its operations; Ubilog's
// schedule names five distinct cadences (spec.md §4.J), so this worker
// carries one ticker per cadence instead, keeping the teacher's
// per-operation-goroutine-plus-select shape for each.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ubilog/ubilog/foundation/blockchain/state"
	"github.com/ubilog/ubilog/foundation/blockchain/transport"
)

// EventHandler is called for every notable scheduler event.
type EventHandler func(v string, args ...any)

// Worker owns the goroutines driving the node's periodic tasks.
type Worker struct {
	state     *state.State
	conn      *transport.Conn
	evHandler EventHandler
	display   bool

	wg   sync.WaitGroup
	shut chan struct{}

	startMining  chan struct{}
	cancelMining chan struct{}
}

// Run constructs a Worker and starts all of its background goroutines. It
// blocks until every goroutine has reported it is running, mirroring the
// teacher's Run's WaitGroup-and-hasStarted-channel startup barrier. display
// gates the terminal status task on the node's `display` config flag
// (spec.md §4.J/§"Configuration"), independent of mining.
func Run(ctx context.Context, s *state.State, conn *transport.Conn, display bool, evHandler EventHandler) *Worker {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	w := &Worker{
		state:        s,
		conn:         conn,
		evHandler:    ev,
		display:      display,
		shut:         make(chan struct{}),
		startMining:  make(chan struct{}, 1),
		cancelMining: make(chan struct{}, 1),
	}

	operations := []func(context.Context){
		w.gossipOperations,
		w.requestOperations,
		w.receiveOperations,
		w.saveOperations,
		w.displayOperations,
	}
	if s.MiningEnabled() {
		operations = append(operations, w.miningOperations)
	}

	g := len(operations)
	w.wg.Add(g)
	hasStarted := make(chan struct{})

	for _, op := range operations {
		go func(op func(context.Context)) {
			defer w.wg.Done()
			hasStarted <- struct{}{}
			op(ctx)
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}

	if s.MiningEnabled() {
		w.SignalStartMining()
	}

	return w
}

// Shutdown terminates every goroutine this Worker started.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining requests a mining batch run. If one is already
// queued, this is a no-op, matching the teacher's buffered-channel
// debounce.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- struct{}{}:
	default:
	}
}

// isShutdown reports whether Shutdown has been called.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// newTicker constructs a ticker already aligned so the first tick fires
// at the given interval from now, matching the cadence names spec.md
// §4.J assigns to each task.
func newTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
