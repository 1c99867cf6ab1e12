package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendMemory, cfg.Backend.Kind)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
logger:
  level: debug
  json: true
http-server:
  port: 9090
backend:
  kind: pebble
  path: /var/lib/tuplekv
payload:
  codec: native
raft:
  enabled: true
  id: 2
  peers: ["1@http://a:8080", "2@http://b:8080"]
  tick_interval: 50ms
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendPebble, cfg.Backend.Kind)
	assert.Equal(t, "native", cfg.Payload.Codec)
	assert.Equal(t, 50*time.Millisecond, cfg.Raft.TickInterval)
	// untouched fields keep their defaults
	assert.Equal(t, "kv", cfg.Backend.Table)
	assert.Equal(t, 10, cfg.Raft.ElectionTick)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Logger.Level = "loud" }},
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"kind", func(c *Config) { c.Backend.Kind = "floppy" }},
		{"pebble path", func(c *Config) { c.Backend.Kind = BackendPebble; c.Backend.Path = "" }},
		{"postgres dsn", func(c *Config) { c.Backend.Kind = BackendPostgres }},
		{"remote url", func(c *Config) { c.Backend.Kind = BackendRemote }},
		{"sharded shards", func(c *Config) { c.Backend.Kind = BackendSharded }},
		{"raft over remote", func(c *Config) {
			c.Backend.Kind = BackendRemote
			c.Backend.URL = "http://x"
			c.Raft.Enabled = true
			c.Raft.ID = 1
			c.Raft.Peers = []string{"1@x"}
		}},
		{"codec", func(c *Config) { c.Payload.Codec = "xml" }},
		{"raft id", func(c *Config) { c.Raft.Enabled = true; c.Raft.Peers = []string{"1@x"} }},
		{"raft peers", func(c *Config) { c.Raft.Enabled = true; c.Raft.ID = 1 }},
		{"mdns without advertise", func(c *Config) {
			c.Raft.Enabled = true
			c.Raft.ID = 1
			c.Raft.ClusterSize = 3
			c.MDNS.Enabled = true
		}},
		{"zk cluster size", func(c *Config) {
			c.Raft.Enabled = true
			c.Raft.ID = 1
			c.ZooKeeper.Servers = []string{"zk:2181"}
			c.Server.Advertise = "http://a:8080"
		}},
		{"raft ticks", func(c *Config) {
			c.Raft.Enabled = true
			c.Raft.ID = 1
			c.Raft.Peers = []string{"1@x"}
			c.Raft.ElectionTick = 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateDiscovery(t *testing.T) {
	cfg := Default()
	cfg.Raft.Enabled = true
	cfg.Raft.ID = 1
	cfg.Raft.ClusterSize = 3
	cfg.Server.Advertise = "http://a:8080"

	cfg.ZooKeeper.Servers = []string{"zk:2181"}
	assert.NoError(t, cfg.Validate())

	cfg.ZooKeeper.Servers = nil
	cfg.MDNS.Enabled = true
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "_tuplekv._tcp", cfg.MDNS.Service)
}

func TestParsePeers(t *testing.T) {
	peers, err := ParsePeers([]string{"1@http://a:1", " 2@http://b:2 "})
	require.NoError(t, err)
	assert.Equal(t, []Peer{{1, "http://a:1"}, {2, "http://b:2"}}, peers)
	assert.Equal(t, "1@http://a:1", peers[0].String())

	for _, bad := range []string{"", "1", "x@http://a", "0@http://a", "1@"} {
		_, err := ParsePeer(bad)
		assert.Error(t, err, bad)
	}
	_, err = ParsePeers([]string{"1@a", "1@b"})
	assert.Error(t, err)
}

func TestEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/tuplekv.yaml")
	t.Setenv(EnvNodeAddr, "http://10.0.0.5:8080")

	assert.Equal(t, "/etc/tuplekv.yaml", PathFromEnv())
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "http://10.0.0.5:8080", cfg.Server.Advertise)
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logger.Level = "debug"
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
	cfg.Logger.Level = "???"
	assert.Equal(t, "INFO", cfg.SlogLevel().String())
}
