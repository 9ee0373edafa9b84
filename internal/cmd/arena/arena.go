// Package arena wires the game server: puzzle rooms over websockets with a
// SQLite audit log.
package arena

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	platformcmd "github.com/sudokulab/arena/internal/platform/cmd"

	"github.com/sudokulab/arena/internal/game/registry"
	"github.com/sudokulab/arena/internal/game/service"
	"github.com/sudokulab/arena/internal/observability/audit"
	"github.com/sudokulab/arena/internal/storage/sqlite"
	"github.com/sudokulab/arena/internal/transport/ws"
)

// Config carries the game server settings.
type Config struct {
	Addr           string        `env:"ARENA_ADDR" envDefault:":8080"`
	AuditDBPath    string        `env:"ARENA_AUDIT_DB" envDefault:"arena.db"`
	IdleAfter      time.Duration `env:"ARENA_ROOM_IDLE_AFTER" envDefault:"30m"`
	SweepInterval  time.Duration `env:"ARENA_ROOM_SWEEP_INTERVAL" envDefault:"5m"`
	AllowedOrigins []string      `env:"ARENA_ALLOWED_ORIGINS" envSeparator:","`
}

// ParseConfig loads configuration from environment variables and flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AuditDBPath, "audit-db", cfg.AuditDBPath, "audit log database path")
	fs.DurationVar(&cfg.IdleAfter, "room-idle-after", cfg.IdleAfter, "evict rooms idle longer than this")
	fs.DurationVar(&cfg.SweepInterval, "room-sweep-interval", cfg.SweepInterval, "how often to sweep idle rooms")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceArena, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.AuditDBPath)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("arena: close audit store: %v", err)
		}
	}()

	emitter := audit.NewEmitter(store)

	reg := registry.New(registry.Config{
		IdleAfter:     cfg.IdleAfter,
		SweepInterval: cfg.SweepInterval,
		OnEvict: func(roomID string) {
			emitter.Emit(context.Background(), audit.EventRoomEvicted, roomID, "", "idle")
		},
	})
	reg.Start()
	defer reg.Stop()

	svc := service.New(reg, emitter)
	hub := ws.NewHub(svc, cfg.AllowedOrigins)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("arena: listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return <-errCh
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}
