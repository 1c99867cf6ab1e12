// Package replicated keeps a local backend in step with its peers through
// an etcd raft log. Mutations are proposed as commands and applied on every
// node in log order; scans read the local copy.
package replicated

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/etcd/raft/v3"
	"go.etcd.io/etcd/raft/v3/raftpb"

	"tuplekv/pkg/backend"
)

var ErrStopped = errors.New("raft node stopped")

type iTransport interface {
	Send(ctx context.Context, msg raftpb.Message) error
	AddPeer(id uint64, addr string)
	RemovePeer(id uint64)
	UpdatePeer(id uint64, addr string)
}

type proposeResult struct {
	Err error
}

type Node struct {
	ID uint64

	peersMu sync.RWMutex
	peers   map[uint64]string

	underlying   raft.Node
	local        backend.Backend
	jr           *raft.MemoryStorage
	conf         *raftpb.ConfState
	tickInterval time.Duration
	transport    iTransport

	ctx  context.Context
	stop context.CancelFunc

	proposalsMu sync.RWMutex
	proposals   map[uuid.UUID]chan proposeResult
}

// NewNode starts a raft node that applies committed commands to local.
// Every node of a cluster must be created with the same peer list.
func NewNode(cfg *Config, local backend.Backend) (*Node, error) {
	rc := toRaftConfig(cfg)
	storage := raft.NewMemoryStorage()
	rc.Storage = storage

	var (
		confState raftpb.ConfState
		peers     = make(map[uint64]string, len(cfg.Peers))
		raftPeers = make([]raft.Peer, 0, len(cfg.Peers))
	)
	for _, p := range cfg.Peers {
		if _, ok := peers[p.ID]; ok {
			return nil, fmt.Errorf("duplicate peer ID %d", p.ID)
		}
		peers[p.ID] = p.Address
		confState.Voters = append(confState.Voters, p.ID)
		raftPeers = append(raftPeers, raft.Peer{
			ID:      p.ID,
			Context: []byte(p.Address),
		})
	}
	if _, ok := peers[cfg.ID]; !ok {
		return nil, fmt.Errorf("node ID %d is not among the peers", cfg.ID)
	}

	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultConfig().TickInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Node{
		ID:           cfg.ID,
		peers:        peers,
		conf:         &confState,
		underlying:   raft.StartNode(rc, raftPeers),
		local:        local,
		jr:           storage,
		tickInterval: tick,
		transport:    NewTransport(peers),
		proposals:    make(map[uuid.UUID]chan proposeResult),
		ctx:          ctx,
		stop:         cancel,
	}, nil
}

// Run drives the raft state machine until ctx is done or Stop is called.
func (n *Node) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-n.ctx.Done():
			return n.ctx.Err()
		case <-ctx.Done():
			_ = n.Stop()
			return ctx.Err()
		case <-ticker.C:
			n.underlying.Tick()
		case rd := <-n.underlying.Ready():
			if err := n.handleReady(rd); err != nil {
				return err
			}
		}
	}
}

func (n *Node) handleReady(rd raft.Ready) error {
	if !raft.IsEmptySnap(rd.Snapshot) {
		if err := n.jr.ApplySnapshot(rd.Snapshot); err != nil {
			return fmt.Errorf("apply snapshot: %w", err)
		}
	}
	if !raft.IsEmptyHardState(rd.HardState) {
		if err := n.jr.SetHardState(rd.HardState); err != nil {
			return fmt.Errorf("set hard state: %w", err)
		}
	}
	if err := n.jr.Append(rd.Entries); err != nil {
		return fmt.Errorf("append entries: %w", err)
	}

	n.sendMessages(rd.Messages)

	for _, entry := range rd.CommittedEntries {
		switch entry.Type {
		case raftpb.EntryNormal:
			if err := n.applyEntry(entry); err != nil {
				slog.Error("critical: failed to apply entry", "index", entry.Index, "error", err)
				return fmt.Errorf("apply entry: %w", err)
			}
		case raftpb.EntryConfChange:
			var cc raftpb.ConfChange
			if err := cc.Unmarshal(entry.Data); err != nil {
				return fmt.Errorf("unmarshal conf change: %w", err)
			}
			n.conf = n.underlying.ApplyConfChange(cc)
			n.updateTransport(cc)
		}
	}

	n.underlying.Advance()
	return nil
}

func (n *Node) updateTransport(cc raftpb.ConfChange) {
	n.peersMu.Lock()
	defer n.peersMu.Unlock()

	switch cc.Type {
	case raftpb.ConfChangeAddNode:
		peerAddr := string(cc.Context)
		n.peers[cc.NodeID] = peerAddr
		n.transport.AddPeer(cc.NodeID, peerAddr)
		slog.Info("added peer", "id", cc.NodeID, "addr", peerAddr)

	case raftpb.ConfChangeRemoveNode:
		delete(n.peers, cc.NodeID)
		n.transport.RemovePeer(cc.NodeID)
		slog.Info("removed peer", "id", cc.NodeID)

	case raftpb.ConfChangeUpdateNode:
		peerAddr := string(cc.Context)
		n.peers[cc.NodeID] = peerAddr
		n.transport.UpdatePeer(cc.NodeID, peerAddr)
		slog.Info("updated peer", "id", cc.NodeID, "addr", peerAddr)
	}
}

func (n *Node) sendMessages(msgs []raftpb.Message) {
	for _, msg := range msgs {
		if msg.To == n.ID {
			continue
		}

		go func(m raftpb.Message) {
			if err := n.transport.Send(n.ctx, m); err != nil {
				if n.ctx.Err() != nil {
					return
				}
				n.underlying.ReportUnreachable(m.To)
				slog.Error("failed to send raft message",
					"from", m.From,
					"to", m.To,
					"type", m.Type,
					"error", err)
			}
		}(msg)
	}
}

// applyEntry mutates the local backend. A backend failure is reported to
// the waiting proposer and does not stop the node.
func (n *Node) applyEntry(entry raftpb.Entry) error {
	if len(entry.Data) == 0 {
		return nil
	}

	var cmd Cmd
	if err := json.Unmarshal(entry.Data, &cmd); err != nil {
		return fmt.Errorf("unmarshal command: %w", err)
	}

	var err error
	switch cmd.Op {
	case OpWrite:
		value := cmd.Value
		if value == nil {
			value = []byte{}
		}
		err = n.local.Write(cmd.Key, value)
	case OpDelete:
		err = n.local.Write(cmd.Key, nil)
	case OpClear:
		err = n.local.Clear()
	default:
		err = fmt.Errorf("unknown command operation: %v", cmd.Op)
	}
	if err != nil {
		slog.Warn("replicated command failed locally", "op", cmd.Op, "id", cmd.ID, "error", err)
	}

	n.notifyProposalResult(cmd.ID, proposeResult{Err: err})
	return nil
}

func (n *Node) notifyProposalResult(cmdID uuid.UUID, result proposeResult) {
	n.proposalsMu.RLock()
	resultChan, ok := n.proposals[cmdID]
	n.proposalsMu.RUnlock()

	if !ok {
		// proposed elsewhere, or the proposer already gave up
		slog.Debug("proposal result channel not found (ignored)", "cmd_id", cmdID)
		return
	}

	select {
	case resultChan <- result:
	default:
		slog.Debug("proposal result channel is full (ignored)", "cmd_id", cmdID)
	}
}

func (n *Node) IsLeader() bool {
	return n.underlying.Status().Lead == n.ID
}

func (n *Node) LeaderID() uint64 {
	return n.underlying.Status().Lead
}

// LeaderAddr is the configured address of the current leader, or "" while
// no leader is known.
func (n *Node) LeaderAddr() string {
	leaderID := n.LeaderID()
	n.peersMu.RLock()
	defer n.peersMu.RUnlock()
	return n.peers[leaderID]
}

func (n *Node) Peers() map[uint64]string {
	n.peersMu.RLock()
	defer n.peersMu.RUnlock()
	out := make(map[uint64]string, len(n.peers))
	for id, addr := range n.peers {
		out[id] = addr
	}
	return out
}

// SetPeerAddr changes the address of a known member. Unknown IDs are
// ignored and reported as false; adding members needs a conf change.
func (n *Node) SetPeerAddr(id uint64, addr string) bool {
	n.peersMu.Lock()
	defer n.peersMu.Unlock()
	old, ok := n.peers[id]
	if !ok {
		return false
	}
	if old != addr {
		n.peers[id] = addr
		n.transport.UpdatePeer(id, addr)
		slog.Info("peer address changed", "id", id, "addr", addr)
	}
	return true
}

// Execute proposes cmd and waits until this node has applied it. Proposals
// made on a follower are forwarded to the leader by raft.
func (n *Node) Execute(ctx context.Context, cmd Cmd) error {
	if cmd.Op < OpWrite || cmd.Op > OpClear {
		return fmt.Errorf("unknown operation: %v", cmd.Op)
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	resultChan := make(chan proposeResult, 1)

	n.proposalsMu.Lock()
	n.proposals[cmd.ID] = resultChan
	n.proposalsMu.Unlock()

	defer func() {
		n.proposalsMu.Lock()
		delete(n.proposals, cmd.ID)
		n.proposalsMu.Unlock()
	}()

	if err := n.underlying.Propose(ctx, data); err != nil {
		return fmt.Errorf("propose: %w", err)
	}

	select {
	case result := <-resultChan:
		return result.Err
	case <-ctx.Done():
		return ctx.Err()
	case <-n.ctx.Done():
		return ErrStopped
	}
}

// Handle steps a message received from another node.
func (n *Node) Handle(ctx context.Context, msg raftpb.Message) error {
	return n.underlying.Step(ctx, msg)
}

func (n *Node) Stop() error {
	select {
	case <-n.ctx.Done():
		return nil
	default:
	}
	slog.Info("stopping raft node", "id", n.ID)

	n.stop()
	n.underlying.Stop()

	slog.Info("raft node stopped", "id", n.ID)
	return nil
}
