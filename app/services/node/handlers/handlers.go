// Package handlers manages the HTTP surface of the node: the public status
// and event-stream endpoints, and the standard debug mux.
package handlers

import (
	"encoding/json"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ubilog/ubilog/app/services/node/handlers/debug/checkgrp"
	"github.com/ubilog/ubilog/foundation/blockchain/state"
	"github.com/ubilog/ubilog/foundation/events"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	State    *state.State
	Evts     *events.Events
}

// NodeMux constructs an http.Handler with the node's public routes: chain
// status and the live event-stream websocket.
func NodeMux(cfg MuxConfig) http.Handler {
	mux := http.NewServeMux()

	h := handlers{log: cfg.Log, state: cfg.State, evts: cfg.Evts}

	mux.HandleFunc("/v1/node/status", h.status)
	mux.HandleFunc("/v1/node/events", h.events)

	return mux
}

type handlers struct {
	log   *zap.SugaredLogger
	state *state.State
	evts  *events.Events
}

// status reports the node's current chain tip, accumulated work, peer
// count, and local mining tally (spec.md §4.J's display task, addressable
// over HTTP as well as the terminal).
func (h handlers) status(w http.ResponseWriter, r *http.Request) {
	tip, work := h.state.Chain().Tip()
	height, _ := h.state.Chain().GetHeight(tip)

	resp := struct {
		Height    uint64 `json:"height"`
		Tip       string `json:"tip"`
		Work      string `json:"work"`
		Peers     int    `json:"peers"`
		Mempool   int    `json:"mempool"`
		Mined     uint64 `json:"mined"`
		Mining    bool   `json:"mining"`
		Timestamp string `json:"timestamp"`
	}{
		Height:    height,
		Tip:       tip.String(),
		Work:      work.String(),
		Peers:     h.state.Peers().Count(),
		Mempool:   h.state.MempoolCount(),
		Mined:     h.state.MinedCount(),
		Mining:    h.state.MiningEnabled(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Errorw("status", "ERROR", err)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// events upgrades the connection to a websocket and streams every
// EventHandler line the node produces, the Go-native replacement for
// spec.md's out-of-scope "terminal display formatter".
func (h handlers) events(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("events", "ERROR", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	ch := h.evts.Subscribe(id)
	defer h.evts.Unsubscribe(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// DebugStandardLibraryMux registers all the debug routes from the standard
// library into a new mux, bypassing http.DefaultServeMux since a dependency
// could inject a handler into that mux without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers the standard library debug routes plus the node's
// readiness/liveness checks.
func DebugMux(build string, log *zap.SugaredLogger) http.Handler {
	mux := DebugStandardLibraryMux()

	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
