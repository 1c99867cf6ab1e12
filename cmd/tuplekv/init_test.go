package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/internal/config"
	apihttp "tuplekv/internal/http"
	"tuplekv/pkg/backend/memory"
	"tuplekv/pkg/keys"
	"tuplekv/pkg/kv"
	"tuplekv/pkg/value"
)

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	for _, bc := range []config.BackendConfig{
		{Kind: config.BackendMemory},
		{Kind: config.BackendPebble, Path: filepath.Join(dir, "pebble")},
		{Kind: config.BackendSQLite, Path: filepath.Join(dir, "sub", "kv.db"), Table: "kv"},
	} {
		t.Run(bc.Kind, func(t *testing.T) {
			b, closer, err := openBackend(bc)
			require.NoError(t, err)
			defer closer.Close()

			s := kv.New(b)
			require.NoError(t, s.Set(keys.Pack1("k"), value.I64(1)))
			_, ok, err := s.Get(keys.Pack1("k"))
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}

	_, _, err := openBackend(config.BackendConfig{Kind: "tape"})
	assert.Error(t, err)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  kind: nosuch\n"), 0o644))
	_, err := initConfig(path)
	assert.Error(t, err)

	t.Setenv(config.EnvNodeAddr, "http://me:8080")
	cfg, err := initConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://me:8080", cfg.Server.Advertise)
}

func TestOpenShardedBackend(t *testing.T) {
	var urls []string
	for i := 0; i < 3; i++ {
		shard := memory.New()
		ts := httptest.NewServer(apihttp.NewServer(kv.New(shard), "", apihttp.WithBackendExport(shard)).Handler())
		t.Cleanup(ts.Close)
		urls = append(urls, ts.URL)
	}

	b, closer, err := openBackend(config.BackendConfig{Kind: config.BackendSharded, Shards: urls, Replicas: 16})
	require.NoError(t, err)
	defer closer.Close()

	s := kv.New(b)
	for i := uint64(0); i < 30; i++ {
		require.NoError(t, s.Set(keys.Pack2(i, "x"), value.U64(i)))
	}
	items, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, items, 30)
}
