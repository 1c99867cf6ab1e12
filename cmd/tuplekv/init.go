package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tuplekv/internal/config"
	"tuplekv/internal/discovery"
	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/memory"
	"tuplekv/pkg/backend/pebblestore"
	"tuplekv/pkg/backend/remote"
	"tuplekv/pkg/backend/sharded"
	"tuplekv/pkg/backend/sqlstore"
)

// initConfig загружает конфиг из файла YAML. Если файл не найден, возвращается config.Default().
func initConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// initLogger настраивает глобальный slog.Logger (JSON или текстовый).
func initLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{AddSource: true, Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Logger.JSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)
}

// openBackend opens the local backend. The returned closer is never nil.
func openBackend(cfg config.BackendConfig) (backend.Backend, io.Closer, error) {
	switch cfg.Kind {
	case config.BackendMemory:
		return memory.New(), nopCloser{}, nil

	case config.BackendPebble:
		b, err := pebblestore.Open(cfg.Path, pebblestore.Options{Sync: cfg.Sync})
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		b, err := sqlstore.Open(sqlstore.SQLite, cfg.Path, sqlstore.Options{Table: cfg.Table})
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case config.BackendPostgres:
		b, err := sqlstore.Open(sqlstore.Postgres, cfg.DSN, sqlstore.Options{Table: cfg.Table})
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case config.BackendRemote:
		b := remote.New(cfg.URL)
		return b, b, nil

	case config.BackendSharded:
		shards := make(map[string]backend.Backend, len(cfg.Shards))
		for _, u := range cfg.Shards {
			shards[u] = remote.New(u)
		}
		b, err := sharded.New(shards, cfg.Replicas)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}

// discoverer finds raft members when no static peer list is configured
// and reports their address changes afterwards.
type discoverer interface {
	WaitForMembers(ctx context.Context, n int) ([]config.Peer, error)
	Watch(ctx context.Context, onChange func([]config.Peer))
	Close() error
}

type zkDiscoverer struct{ *discovery.Registry }

func (d zkDiscoverer) Watch(ctx context.Context, onChange func([]config.Peer)) {
	d.RunWatch(ctx, onChange)
}

type mdnsDiscoverer struct {
	*discovery.Beacon
	interval time.Duration
}

func (d mdnsDiscoverer) Watch(ctx context.Context, onChange func([]config.Peer)) {
	d.RunWatch(ctx, d.interval, onChange)
}

// openDiscovery prefers ZooKeeper when servers are configured.
func openDiscovery(cfg *config.Config) (discoverer, error) {
	self := config.Peer{ID: cfg.Raft.ID, Address: cfg.Server.Advertise}

	if len(cfg.ZooKeeper.Servers) > 0 {
		registry, err := discovery.Connect(cfg.ZooKeeper.Servers, cfg.ZooKeeper.Root, self)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(); err != nil {
			registry.Close()
			return nil, err
		}
		return zkDiscoverer{registry}, nil
	}

	if cfg.MDNS.Enabled {
		beacon, err := discovery.Announce(self, cfg.MDNS.Service, cfg.MDNS.BrowseTimeout)
		if err != nil {
			return nil, err
		}
		return mdnsDiscoverer{Beacon: beacon, interval: 5 * cfg.MDNS.BrowseTimeout}, nil
	}

	return nil, fmt.Errorf("no peer discovery configured")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
