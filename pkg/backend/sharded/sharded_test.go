package sharded

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/backendtest"
	"tuplekv/pkg/backend/memory"
	"tuplekv/pkg/keys"
)

// countingBackend counts range scans.
type countingBackend struct {
	*memory.Backend
	scans int
}

func (c *countingBackend) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	c.scans++
	return c.Backend.RangeScan(start, end)
}

func newSharded(t *testing.T, n int) (*Backend, map[string]*countingBackend) {
	t.Helper()
	shards := make(map[string]backend.Backend, n)
	raw := make(map[string]*countingBackend, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("shard%d", i)
		raw[name] = &countingBackend{Backend: memory.New()}
		shards[name] = raw[name]
	}
	b, err := New(shards, DefaultReplicas)
	require.NoError(t, err)
	return b, raw
}

func TestConformance(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) backend.Backend {
		b, _ := newSharded(t, 3)
		return b
	})
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil, 8)
	assert.Error(t, err)
	_, err = New(map[string]backend.Backend{"a": nil}, 8)
	assert.Error(t, err)
}

func TestSameFirstSegmentSameShard(t *testing.T) {
	b, raw := newSharded(t, 4)
	for i := uint64(0); i < 50; i++ {
		require.NoError(t, b.Write(keys.Pack2("users", i), []byte{byte(i)}))
	}

	owner := b.ShardOf(keys.Pack1("users"))
	assert.Equal(t, 50, raw[owner].Len())

	prefix := keys.Pack1("users")
	end, _ := prefix.Successor()
	for _, r := range raw {
		r.scans = 0
	}
	entries, err := b.RangeScan(prefix, end)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
	for name, r := range raw {
		if name == owner {
			assert.Equal(t, 1, r.scans)
		} else {
			assert.Zero(t, r.scans, name)
		}
	}
}

func TestCrossShardScanIsOrdered(t *testing.T) {
	b, raw := newSharded(t, 3)
	for i := uint64(0); i < 200; i++ {
		require.NoError(t, b.Write(keys.Pack2(i, "v"), []byte{1}))
	}

	used := 0
	for _, r := range raw {
		if r.Len() > 0 {
			used++
		}
	}
	assert.Greater(t, used, 1, "keys should spread over shards")

	entries, err := b.RangeScan(keys.Pack1(uint64(10)), keys.Pack1(uint64(20)))
	require.NoError(t, err)
	require.Len(t, entries, 10)
	for i := 1; i < len(entries); i++ {
		assert.Negative(t, entries[i-1].Key.Compare(entries[i].Key))
	}
}

func TestMalformedKeysRoute(t *testing.T) {
	b, _ := newSharded(t, 2)
	k := keys.Key{0x09, 0x01}
	require.NoError(t, b.Write(k, []byte("x")))
	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, k, entries[0].Key)
}

// кольцо из N шардов с заданным числом реплик
func makeRing(n, replicas int) *Ring {
	r := NewRing(replicas)
	for i := 1; i <= n; i++ {
		r.Add(fmt.Sprintf("node%d:8080", i))
	}
	return r
}

// равномерность распределения ~ 1/N с допуском
func TestRing_DistributionUniformity(t *testing.T) {
	N := 3
	r := makeRing(N, 128)
	total := 60_000

	counts := map[string]int{}
	for i := 0; i < total; i++ {
		n, ok := r.Owner(keys.Pack1(uint64(i)))
		if !ok {
			t.Fatalf("ring returned no owner for key %d", i)
		}
		counts[n]++
	}
	ideal := float64(total) / float64(N)
	tolerance := 0.25 * ideal

	for node, c := range counts {
		diff := math.Abs(float64(c) - ideal)
		if diff > tolerance {
			t.Fatalf("node %s: count=%d ideal=%.0f diff=%.0f > tol=%.0f", node, c, ideal, diff, tolerance)
		}
	}
}

// минимальные перемещения при добавлении ноды (~1/(N+1))
func TestRing_MinimalMovementOnAdd(t *testing.T) {
	r := makeRing(3, 128)
	total := 20_000
	before := make([]string, total)
	for i := range before {
		before[i], _ = r.Owner(keys.Pack1(fmt.Sprintf("k-%d", i)))
	}

	r.Add("node4:8080")
	moved := 0
	for i := range before {
		after, _ := r.Owner(keys.Pack1(fmt.Sprintf("k-%d", i)))
		if after != before[i] {
			if after != "node4:8080" {
				t.Fatalf("key %d moved between old nodes: %s -> %s", i, before[i], after)
			}
			moved++
		}
	}
	frac := float64(moved) / float64(total)
	if frac < 0.1 || frac > 0.4 {
		t.Fatalf("moved fraction %.3f outside [0.1, 0.4]", frac)
	}
}

func TestRing_RemoveAndEmpty(t *testing.T) {
	r := makeRing(2, 16)
	assert.Equal(t, []string{"node1:8080", "node2:8080"}, r.Shards())

	r.Remove("node1:8080")
	for i := 0; i < 100; i++ {
		n, ok := r.Owner(keys.Pack1(uint64(i)))
		require.True(t, ok)
		assert.Equal(t, "node2:8080", n)
	}

	r.Remove("node2:8080")
	_, ok := r.Owner([]byte("x"))
	assert.False(t, ok)
}
