//nolint:hugeParam // test only
package replicated

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/etcd/raft/v3/raftpb"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/backendtest"
	"tuplekv/pkg/backend/memory"
	"tuplekv/pkg/keys"
)

// inprocTransport routes raft messages between nodes in memory.
type inprocTransport struct {
	nodesMu sync.RWMutex
	nodes   map[uint64]*Node
}

func newInprocTransport() *inprocTransport {
	return &inprocTransport{nodes: make(map[uint64]*Node)}
}

func (t *inprocTransport) register(n *Node) {
	t.nodesMu.Lock()
	defer t.nodesMu.Unlock()
	t.nodes[n.ID] = n
}

func (t *inprocTransport) Send(_ context.Context, msg raftpb.Message) error {
	t.nodesMu.RLock()
	target, ok := t.nodes[msg.To]
	t.nodesMu.RUnlock()
	if !ok {
		return nil
	}
	go func() {
		_ = target.Handle(context.Background(), msg)
	}()
	return nil
}

func (t *inprocTransport) AddPeer(uint64, string)    {}
func (t *inprocTransport) RemovePeer(uint64)         {}
func (t *inprocTransport) UpdatePeer(uint64, string) {}

func testConfig(id uint64, peers ...uint64) *Config {
	cfg := DefaultConfig()
	cfg.ID = id
	cfg.TickInterval = 10 * time.Millisecond
	cfg.ProposalTimeout = 3 * time.Second
	for _, p := range peers {
		cfg.Peers = append(cfg.Peers, Peer{ID: p, Address: "n" + string(rune('0'+p))})
	}
	return &cfg
}

// cluster starts size nodes on a shared in-proc transport and stops them
// on cleanup.
func cluster(t *testing.T, size int) ([]*Node, []*memory.Backend) {
	t.Helper()
	ids := make([]uint64, size)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}

	transport := newInprocTransport()
	nodes := make([]*Node, size)
	stores := make([]*memory.Backend, size)
	for i, id := range ids {
		stores[i] = memory.New()
		n, err := NewNode(testConfig(id, ids...), stores[i])
		require.NoError(t, err)
		n.transport = transport
		nodes[i] = n
		transport.register(n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, n := range nodes {
		wg.Add(1)
		go func(node *Node) {
			defer wg.Done()
			_ = node.Run(ctx)
		}(n)
	}
	t.Cleanup(func() {
		cancel()
		for _, n := range nodes {
			_ = n.Stop()
		}
		wg.Wait()
	})
	return nodes, stores
}

// waitForLeader waits until exactly one node considers itself leader.
func waitForLeader(t *testing.T, nodes []*Node, timeout time.Duration) *Node {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var leaders []*Node
		for _, n := range nodes {
			if n.IsLeader() {
				leaders = append(leaders, n)
			}
		}
		if len(leaders) == 1 {
			return leaders[0]
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("leader not elected within %s", timeout)
	return nil
}

func TestSingleNodeConformance(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) backend.Backend {
		nodes, _ := cluster(t, 1)
		waitForLeader(t, nodes, 5*time.Second)
		return New(nodes[0], 3*time.Second)
	})
}

func TestReplication3Nodes(t *testing.T) {
	nodes, stores := cluster(t, 3)
	leader := waitForLeader(t, nodes, 5*time.Second)
	t.Logf("leader elected: %d", leader.ID)

	b := New(leader, 3*time.Second)
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, b.Write(keys.Pack2(uint64(99), i), []byte{byte(i * 10)}))
	}
	require.NoError(t, b.Write(keys.Pack2(uint64(99), uint64(3)), nil))

	assert.Eventually(t, func() bool {
		for _, s := range stores {
			if s.Len() != 4 {
				return false
			}
		}
		return true
	}, 3*time.Second, 20*time.Millisecond, "replication did not reach all nodes")

	for _, s := range stores {
		entries, err := s.RangeScan(nil, nil)
		require.NoError(t, err)
		var vals []byte
		for _, e := range entries {
			vals = append(vals, e.Value...)
		}
		assert.Equal(t, []byte{10, 20, 40, 50}, vals)
	}
}

func TestWriteThroughFollower(t *testing.T) {
	nodes, stores := cluster(t, 3)
	leader := waitForLeader(t, nodes, 5*time.Second)

	var follower *Node
	for _, n := range nodes {
		if n != leader {
			follower = n
			break
		}
	}
	require.NotNil(t, follower)

	require.NoError(t, New(follower, 3*time.Second).Write(keys.Pack1("via-follower"), []byte("x")))
	assert.Eventually(t, func() bool {
		for _, s := range stores {
			if s.Len() != 1 {
				return false
			}
		}
		return true
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, New(leader, 3*time.Second).Clear())
	assert.Eventually(t, func() bool {
		for _, s := range stores {
			if s.Len() != 0 {
				return false
			}
		}
		return true
	}, 3*time.Second, 20*time.Millisecond)
}

func TestLeaderAddr(t *testing.T) {
	nodes, _ := cluster(t, 3)
	leader := waitForLeader(t, nodes, 5*time.Second)
	assert.Eventually(t, func() bool {
		for _, n := range nodes {
			if n.LeaderAddr() != leader.Peers()[leader.ID] {
				return false
			}
		}
		return true
	}, 3*time.Second, 20*time.Millisecond)
}

func TestNewNodeValidatesPeers(t *testing.T) {
	cfg := testConfig(1, 1, 1)
	_, err := NewNode(cfg, memory.New())
	assert.Error(t, err)

	_, err = NewNode(testConfig(4, 1, 2, 3), memory.New())
	assert.Error(t, err)
}

func TestStoppedNodeRejectsWrites(t *testing.T) {
	nodes, _ := cluster(t, 1)
	waitForLeader(t, nodes, 5*time.Second)
	require.NoError(t, nodes[0].Stop())

	err := New(nodes[0], time.Second).Write(keys.Pack1("k"), []byte("v"))
	assert.Error(t, err)
}

func TestExecuteRejectsUnknownOp(t *testing.T) {
	nodes, _ := cluster(t, 1)
	err := nodes[0].Execute(context.Background(), Cmd{Op: Op(42)})
	assert.Error(t, err)
}
