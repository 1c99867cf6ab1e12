//nolint:hugeParam // test only
package replicated

import (
	"context"
	"sync"
	"testing"

	"go.etcd.io/etcd/raft/v3/raftpb"

	"tuplekv/pkg/backend/memory"
)

// mockTransport records every call.
type mockTransport struct {
	mu       sync.Mutex
	addCalls []struct {
		id   uint64
		addr string
	}
	removeCalls []uint64
	updateCalls []struct {
		id   uint64
		addr string
	}
	sentMsgs []raftpb.Message
}

func (m *mockTransport) Send(_ context.Context, msg raftpb.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentMsgs = append(m.sentMsgs, msg)
	return nil
}

func (m *mockTransport) AddPeer(id uint64, addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls = append(m.addCalls, struct {
		id   uint64
		addr string
	}{id: id, addr: addr})
}

func (m *mockTransport) RemovePeer(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeCalls = append(m.removeCalls, id)
}

func (m *mockTransport) UpdatePeer(id uint64, addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls = append(m.updateCalls, struct {
		id   uint64
		addr string
	}{id: id, addr: addr})
}

func TestNode_UpdateTransport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Peers = []Peer{{ID: 1, Address: "http://127.0.0.1:8080"}}

	n, err := NewNode(&cfg, memory.New())
	if err != nil {
		t.Fatalf("failed to create node: %v", err)
	}
	defer n.Stop()

	mt := &mockTransport{}
	n.transport = mt

	n.updateTransport(raftpb.ConfChange{Type: raftpb.ConfChangeAddNode, NodeID: 2, Context: []byte("http://127.0.0.1:8081")})
	if len(mt.addCalls) != 1 {
		t.Fatalf("expected 1 add call, got %d", len(mt.addCalls))
	}
	if mt.addCalls[0].id != 2 || mt.addCalls[0].addr != "http://127.0.0.1:8081" {
		t.Fatalf("unexpected add call data: %#v", mt.addCalls[0])
	}
	if addr := n.Peers()[2]; addr != "http://127.0.0.1:8081" {
		t.Fatalf("peer not added or wrong addr: %q", addr)
	}

	n.updateTransport(raftpb.ConfChange{Type: raftpb.ConfChangeUpdateNode, NodeID: 2, Context: []byte("http://127.0.0.1:9000")})
	if len(mt.updateCalls) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(mt.updateCalls))
	}
	if addr := n.Peers()[2]; addr != "http://127.0.0.1:9000" {
		t.Fatalf("peer not updated or wrong addr: %q", addr)
	}

	n.updateTransport(raftpb.ConfChange{Type: raftpb.ConfChangeRemoveNode, NodeID: 2})
	if len(mt.removeCalls) != 1 || mt.removeCalls[0] != 2 {
		t.Fatalf("unexpected remove calls: %v", mt.removeCalls)
	}
	if _, ok := n.Peers()[2]; ok {
		t.Fatalf("peer still present after removal")
	}
}

func TestWriteCmd(t *testing.T) {
	if c := writeCmd([]byte{1}, nil); c.Op != OpDelete {
		t.Fatalf("nil value should delete, got %v", c.Op)
	}
	if c := writeCmd([]byte{1}, []byte{}); c.Op != OpWrite {
		t.Fatalf("empty value should write, got %v", c.Op)
	}
	a, b := writeCmd(nil, nil), writeCmd(nil, nil)
	if a.ID == b.ID {
		t.Fatalf("command IDs must be unique")
	}
}

func TestNode_SetPeerAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Peers = []Peer{{ID: 1, Address: "http://127.0.0.1:8080"}}

	n, err := NewNode(&cfg, memory.New())
	if err != nil {
		t.Fatalf("failed to create node: %v", err)
	}
	defer n.Stop()

	mt := &mockTransport{}
	n.transport = mt

	if n.SetPeerAddr(7, "http://x") {
		t.Fatalf("unknown peer must be rejected")
	}
	if !n.SetPeerAddr(1, "http://127.0.0.1:9999") {
		t.Fatalf("known peer must be updated")
	}
	n.SetPeerAddr(1, "http://127.0.0.1:9999")
	if len(mt.updateCalls) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(mt.updateCalls))
	}
	if addr := n.Peers()[1]; addr != "http://127.0.0.1:9999" {
		t.Fatalf("unexpected addr %q", addr)
	}
}
