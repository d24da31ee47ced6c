package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"

	"github.com/ubilog/ubilog/app/services/node/handlers"
	"github.com/ubilog/ubilog/foundation/blockchain/params"
	"github.com/ubilog/ubilog/foundation/blockchain/peer"
	"github.com/ubilog/ubilog/foundation/blockchain/state"
	"github.com/ubilog/ubilog/foundation/blockchain/transport"
	"github.com/ubilog/ubilog/foundation/blockchain/wire"
	"github.com/ubilog/ubilog/foundation/blockchain/worker"
	"github.com/ubilog/ubilog/foundation/events"
	"github.com/ubilog/ubilog/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Node struct {
			Port      uint16   `conf:"default:7946"`
			BasePath  string   `conf:"default:zubilog/"`
			Display   bool     `conf:"default:false"`
			Mine      bool     `conf:"default:false"`
			SecretKey uint64   `conf:"default:0"`
			Peers     []string `conf:"default:"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "UBILOGNODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	peers := make([]peer.Peer, 0, len(cfg.Node.Peers))
	now := time.Now().UnixMilli()
	for _, host := range cfg.Node.Peers {
		addr, err := parsePeerAddr(host)
		if err != nil {
			return fmt.Errorf("parsing peer %q: %w", host, err)
		}
		peers = append(peers, peer.Peer{Addr: addr, SeenAt: now})
	}

	// The blockchain packages accept a function of this signature to allow
	// the application to log. These raw messages are also sent to any
	// websocket client connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Broadcast(s)
	}

	// The state value represents the blockchain node: chain store, mempool,
	// peer table, and on-disk persistence.
	st, err := state.New(state.Config{
		BasePath:  cfg.Node.BasePath,
		SecretKey: cfg.Node.SecretKey,
		Mine:      cfg.Node.Mine,
		Peers:     peers,
		EvHandler: ev,
	})
	if err != nil {
		return fmt.Errorf("constructing state: %w", err)
	}
	defer st.Shutdown()

	if err := st.LoadChain(); err != nil {
		return fmt.Errorf("loading chain from disk: %w", err)
	}

	conn, err := transport.Listen(cfg.Node.Port)
	if err != nil {
		return fmt.Errorf("binding udp socket on port %d: %w", cfg.Node.Port, err)
	}
	st.AttachConn(conn, cfg.Node.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The worker package drives the gossip/request/receiver/saver/display
	// cadences plus the miner, registering itself against state.
	w := worker.Run(ctx, st, conn, cfg.Node.Display, ev)
	defer w.Shutdown()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log)
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing node status API")

	publicMux := handlers.NodeMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "node status api started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		log.Infow("shutdown", "status", "shutdown node status api started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop node status api gracefully: %w", err)
		}
	}

	return nil
}

// parsePeerAddr parses a "host" or "host:port" string into a wire.Addr,
// defaulting to params.DefaultPort when no port is given, per spec.md §6's
// "(address, optional port defaulting to DEFAULT_PORT)".
func parsePeerAddr(host string) (wire.Addr, error) {
	h, portStr, err := net.SplitHostPort(host)
	if err != nil {
		h = host
		portStr = strconv.Itoa(params.DefaultPort)
	}

	ip := net.ParseIP(h)
	if ip == nil {
		ips, err := net.LookupIP(h)
		if err != nil || len(ips) == 0 {
			return wire.Addr{}, fmt.Errorf("resolving host %q: %w", h, err)
		}
		ip = ips[0]
	}

	port, err := strconv.ParseUint(strings.TrimSpace(portStr), 10, 16)
	if err != nil {
		return wire.Addr{}, fmt.Errorf("parsing port %q: %w", portStr, err)
	}

	return wire.Addr{IP: ip, Port: uint16(port)}, nil
}
