// Package config holds the node configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	EnvConfigPath = "TUPLEKV_CONFIG"
	EnvNodeAddr   = "TUPLEKV_NODE_ADDR"
	DefaultPath   = "config.yaml"
)

// Backend kinds.
const (
	BackendMemory   = "memory"
	BackendPebble   = "pebble"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
	BackendSharded  = "sharded"
)

// Config - корневая структура конфигурации ноды
type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Server    ServerConfig    `yaml:"http-server"`
	Backend   BackendConfig   `yaml:"backend"`
	Payload   PayloadConfig   `yaml:"payload"`
	Raft      RaftConfig      `yaml:"raft"`
	ZooKeeper ZooKeeperConfig `yaml:"zookeeper"`
	MDNS      MDNSConfig      `yaml:"mdns"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	// Advertise is the base URL other nodes use to reach this one.
	Advertise string `yaml:"advertise"`
}

type BackendConfig struct {
	Kind string `yaml:"kind"`
	// Path is the pebble directory or the sqlite file.
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
	URL  string `yaml:"url"`
	// Table for the SQL backends.
	Table string `yaml:"table"`
	Sync  bool   `yaml:"sync"`
	// Shards are node URLs whose exported backends form a sharded backend.
	Shards   []string `yaml:"shards"`
	Replicas int      `yaml:"replicas"`
}

type PayloadConfig struct {
	Codec string `yaml:"codec"`
}

type RaftConfig struct {
	Enabled         bool          `yaml:"enabled"`
	ID              uint64        `yaml:"id"`
	Peers           []string      `yaml:"peers"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	ElectionTick    int           `yaml:"election_tick"`
	HeartbeatTick   int           `yaml:"heartbeat_tick"`
	ProposalTimeout time.Duration `yaml:"proposal_timeout"`
	// ClusterSize is how many members must be discovered before a node
	// started without raft.peers bootstraps.
	ClusterSize int `yaml:"cluster_size"`
}

type ZooKeeperConfig struct {
	Servers []string `yaml:"servers"`
	Root    string   `yaml:"root"`
}

// MDNSConfig enables LAN discovery of raft members when neither static
// peers nor ZooKeeper servers are configured.
type MDNSConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Service       string        `yaml:"service"`
	BrowseTimeout time.Duration `yaml:"browse_timeout"`
}

// Default returns a single-node in-memory development config.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "INFO",
			JSON:  false,
		},
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
		},
		Backend: BackendConfig{
			Kind:     BackendMemory,
			Path:     "./data",
			Table:    "kv",
			Sync:     true,
			Replicas: 128,
		},
		Payload: PayloadConfig{Codec: "cbor"},
		Raft: RaftConfig{
			TickInterval:    100 * time.Millisecond,
			ElectionTick:    10,
			HeartbeatTick:   1,
			ProposalTimeout: 5 * time.Second,
		},
		ZooKeeper: ZooKeeperConfig{Root: "/tuplekv"},
		MDNS: MDNSConfig{
			Service:       "_tuplekv._tcp",
			BrowseTimeout: 2 * time.Second,
		},
	}
}

// Load reads a YAML file on top of Default. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("config file not found, using default config", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// PathFromEnv returns $TUPLEKV_CONFIG or DefaultPath.
func PathFromEnv() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// ApplyEnv overrides the advertised address with $TUPLEKV_NODE_ADDR.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv(EnvNodeAddr); addr != "" {
		c.Server.Advertise = addr
	}
}

// SlogLevel maps Logger.Level to a slog level; unknown names are INFO.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.Logger.Level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) Validate() error {
	var errs []error

	switch strings.ToUpper(c.Logger.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("logger.level: unknown level %q", c.Logger.Level))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("http-server.port: %d out of range", c.Server.Port))
	}

	switch c.Backend.Kind {
	case BackendMemory:
	case BackendPebble, BackendSQLite:
		if c.Backend.Path == "" {
			errs = append(errs, fmt.Errorf("backend.path is required for %s", c.Backend.Kind))
		}
	case BackendPostgres:
		if c.Backend.DSN == "" {
			errs = append(errs, errors.New("backend.dsn is required for postgres"))
		}
	case BackendRemote:
		if c.Backend.URL == "" {
			errs = append(errs, errors.New("backend.url is required for remote"))
		}
	case BackendSharded:
		if len(c.Backend.Shards) == 0 {
			errs = append(errs, errors.New("backend.shards is required for sharded"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend.kind: unknown kind %q", c.Backend.Kind))
	}

	switch c.Payload.Codec {
	case "", "cbor", "native":
	default:
		errs = append(errs, fmt.Errorf("payload.codec: unknown codec %q", c.Payload.Codec))
	}

	if c.Raft.Enabled {
		errs = append(errs, c.validateRaft()...)
	}

	return errors.Join(errs...)
}

func (c *Config) validateRaft() []error {
	var errs []error
	if c.Raft.ID == 0 {
		errs = append(errs, errors.New("raft.id must be non-zero"))
	}
	if c.Backend.Kind == BackendRemote || c.Backend.Kind == BackendSharded {
		errs = append(errs, fmt.Errorf("raft cannot replicate a %s backend", c.Backend.Kind))
	}
	if len(c.Raft.Peers) == 0 {
		if len(c.ZooKeeper.Servers) == 0 && !c.MDNS.Enabled {
			errs = append(errs, errors.New("raft needs raft.peers, zookeeper.servers or mdns.enabled"))
		} else if c.Raft.ClusterSize < 1 {
			errs = append(errs, errors.New("raft.cluster_size is required without raft.peers"))
		}
		if c.Server.Advertise == "" {
			errs = append(errs, errors.New("http-server.advertise is required for peer discovery"))
		}
		if c.MDNS.Enabled && len(c.ZooKeeper.Servers) == 0 {
			if c.MDNS.Service == "" {
				errs = append(errs, errors.New("mdns.service must not be empty"))
			}
			if c.MDNS.BrowseTimeout <= 0 {
				errs = append(errs, errors.New("mdns.browse_timeout must be positive"))
			}
		}
	}
	if _, err := ParsePeers(c.Raft.Peers); err != nil {
		errs = append(errs, err)
	}
	if c.Raft.HeartbeatTick <= 0 || c.Raft.ElectionTick <= c.Raft.HeartbeatTick {
		errs = append(errs, errors.New("raft.election_tick must exceed raft.heartbeat_tick"))
	}
	return errs
}

// Peer is one raft member in "id@url" form.
type Peer struct {
	ID      uint64
	Address string
}

func (p Peer) String() string {
	return strconv.FormatUint(p.ID, 10) + "@" + p.Address
}

// ParsePeer parses "id@url".
func ParsePeer(s string) (Peer, error) {
	idPart, addr, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok || addr == "" {
		return Peer{}, fmt.Errorf("peer %q: want id@address", s)
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return Peer{}, fmt.Errorf("peer %q: bad id", s)
	}
	return Peer{ID: id, Address: addr}, nil
}

func ParsePeers(list []string) ([]Peer, error) {
	peers := make([]Peer, 0, len(list))
	seen := make(map[uint64]bool, len(list))
	for _, s := range list {
		p, err := ParsePeer(s)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate raft peer id %d", p.ID)
		}
		seen[p.ID] = true
		peers = append(peers, p)
	}
	return peers, nil
}
