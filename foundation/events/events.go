// Package events fans out the node's log/status lines to every connected
// /v1/node/events websocket client. One goroutine calls Broadcast per line
// the node's EventHandler produces; each connected client runs its own
// Subscribe/Unsubscribe pair around a dedicated buffered channel.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer bounds how many lines a slow websocket writer can fall
// behind by before Broadcast starts dropping its messages instead of
// blocking the node's event-producing goroutines.
const messageBuffer = 100

// Events is the node's event-log fan-out hub: one buffered channel per
// connected subscriber, keyed by an arbitrary caller-chosen id (the node
// uses a per-connection uuid).
type Events struct {
	m  map[string]chan string
	mu sync.RWMutex
}

// New constructs an empty hub.
func New() *Events {
	return &Events{
		m: make(map[string]chan string),
	}
}

// Shutdown closes and removes every subscriber channel, run once at node
// shutdown so in-flight websocket writers see their channel close.
func (evt *Events) Shutdown() {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Subscribe returns the channel for id, creating it on first use. The
// node's events handler calls this once per accepted websocket connection.
func (evt *Events) Subscribe(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if exists {
		return ch
	}

	evt.m[id] = make(chan string, messageBuffer)
	return evt.m[id]
}

// Unsubscribe closes and removes id's channel.
func (evt *Events) Unsubscribe(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Broadcast delivers line to every subscriber without blocking: a
// subscriber whose channel is full (a websocket writer that's fallen
// behind) simply misses the line rather than stalling the node.
func (evt *Events) Broadcast(line string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- line:
		default:
		}
	}
}

// Count reports the number of connected event-stream subscribers.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()
	return len(evt.m)
}
