package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"tuplekv/internal/config"
	"tuplekv/internal/metrics"
	apihttp "tuplekv/internal/http"
	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/replicated"
	"tuplekv/pkg/kv"
	"tuplekv/pkg/value"
)

func main() {
	configPath := flag.String("config", config.PathFromEnv(), "path to the YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("tuplekv stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := initConfig(configPath)
	if err != nil {
		return err
	}
	initLogger(&cfg)

	local, closer, err := openBackend(cfg.Backend)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend.Kind, err)
	}
	defer closer.Close()
	slog.Info("backend opened", "kind", cfg.Backend.Kind)

	codec, err := value.CodecByName(cfg.Payload.Codec)
	if err != nil {
		return err
	}

	var (
		storeBackend backend.Backend = local
		serverOpts                   = []apihttp.Option{
			apihttp.WithAdvertiseURL(cfg.Server.Advertise),
			apihttp.WithReadHeaderTimeout(cfg.Server.ReadHeaderTimeout),
		}
		wg sync.WaitGroup
	)

	if cfg.Raft.Enabled {
		node, disc, err := startRaft(ctx, &cfg, local)
		if err != nil {
			return err
		}
		if disc != nil {
			defer disc.Close()
			disc.Watch(ctx, func(members []config.Peer) {
				for _, m := range members {
					if !node.SetPeerAddr(m.ID, m.Address) {
						slog.Warn("member is not part of the raft cluster", "id", m.ID, "addr", m.Address)
					}
				}
			})
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := node.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Raft node error", "error", err)
				cancel()
			}
		}()
		defer func() {
			_ = node.Stop()
			wg.Wait()
		}()

		storeBackend = replicated.New(node, cfg.Raft.ProposalTimeout)
		serverOpts = append(serverOpts, apihttp.WithRaft(node))
	}
	m := metrics.New()
	storeBackend = m.Instrument(storeBackend)
	serverOpts = append(serverOpts, apihttp.WithBackendExport(storeBackend), apihttp.WithMetrics(m))

	store := kv.New(storeBackend, kv.WithCodec(codec), kv.WithLogger(slog.Default()))
	server := apihttp.NewServer(store, strconv.Itoa(cfg.Server.Port), serverOpts...)
	if err := server.Start(); err != nil {
		return err
	}

	slog.Info("tuplekv started", "port", cfg.Server.Port, "codec", codec.Name(), "raft", cfg.Raft.Enabled)
	<-ctx.Done()

	if err := server.Stop(); err != nil {
		slog.Error("Error stopping server", "error", err)
	}
	slog.Info("tuplekv stopped")
	return nil
}

// startRaft builds the raft node over local. Without a static peer list
// the members are discovered through ZooKeeper or mDNS; the returned
// discoverer is then non-nil and owned by the caller.
func startRaft(ctx context.Context, cfg *config.Config, local backend.Backend) (*replicated.Node, discoverer, error) {
	peers, err := config.ParsePeers(cfg.Raft.Peers)
	if err != nil {
		return nil, nil, err
	}

	var disc discoverer
	if len(peers) == 0 {
		disc, err = openDiscovery(cfg)
		if err != nil {
			return nil, nil, err
		}
		peers, err = disc.WaitForMembers(ctx, cfg.Raft.ClusterSize)
		if err != nil {
			disc.Close()
			return nil, nil, fmt.Errorf("discover raft members: %w", err)
		}
	}

	rc := replicated.DefaultConfig()
	rc.ID = cfg.Raft.ID
	rc.ElectionTick = cfg.Raft.ElectionTick
	rc.HeartbeatTick = cfg.Raft.HeartbeatTick
	rc.TickInterval = cfg.Raft.TickInterval
	rc.ProposalTimeout = cfg.Raft.ProposalTimeout
	for _, p := range peers {
		rc.Peers = append(rc.Peers, replicated.Peer{ID: p.ID, Address: p.Address})
	}

	node, err := replicated.NewNode(&rc, local)
	if err != nil {
		if disc != nil {
			disc.Close()
		}
		return nil, nil, fmt.Errorf("start raft node: %w", err)
	}
	slog.Info("raft node created", "id", rc.ID, "peers", len(rc.Peers))
	return node, disc, nil
}
