package worker_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ubilog/ubilog/foundation/blockchain/state"
	"github.com/ubilog/ubilog/foundation/blockchain/transport"
	"github.com/ubilog/ubilog/foundation/blockchain/worker"
)

func newTestState(t *testing.T) *state.State {
	dir, err := os.MkdirTemp("", "ubilog-worker-")
	if err != nil {
		t.Fatalf("MkdirTemp: %s", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := state.New(state.Config{BasePath: dir})
	if err != nil {
		t.Fatalf("state.New: %s", err)
	}
	return s
}

func TestRunStartsAndShutsDownCleanly(t *testing.T) {
	s := newTestState(t)

	conn, err := transport.Listen(0)
	if err != nil {
		t.Fatalf("transport.Listen: %s", err)
	}
	defer conn.Close()
	s.AttachConn(conn, conn.LocalAddr().Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []string
	ev := func(v string, args ...any) {
		events = append(events, v)
	}

	w := worker.Run(ctx, s, conn, false, ev)
	w.Shutdown()

	foundStarted, foundCompleted := false, false
	for _, e := range events {
		if e == "worker: gossipOperations: started" {
			foundStarted = true
		}
		if e == "worker: gossipOperations: completed" {
			foundCompleted = true
		}
	}
	if !foundStarted || !foundCompleted {
		t.Fatalf("expected gossipOperations started/completed events, got %v", events)
	}
}

func TestSignalStartMiningDoesNotBlockWhenAlreadyQueued(t *testing.T) {
	s := newTestState(t)

	conn, err := transport.Listen(0)
	if err != nil {
		t.Fatalf("transport.Listen: %s", err)
	}
	defer conn.Close()
	s.AttachConn(conn, conn.LocalAddr().Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.Run(ctx, s, conn, false, nil)
	defer w.Shutdown()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			w.SignalStartMining()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SignalStartMining blocked under repeated calls")
	}
}
