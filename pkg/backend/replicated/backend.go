package replicated

import (
	"context"
	"time"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

// Backend exposes a Node as a backend.Backend. Scans read the local
// replica, so a follower may briefly lag behind the leader.
type Backend struct {
	node    *Node
	local   backend.Backend
	timeout time.Duration
}

var _ backend.Backend = (*Backend)(nil)

func New(node *Node, proposalTimeout time.Duration) *Backend {
	if proposalTimeout <= 0 {
		proposalTimeout = DefaultConfig().ProposalTimeout
	}
	return &Backend{node: node, local: node.local, timeout: proposalTimeout}
}

func (b *Backend) Node() *Node { return b.node }

func (b *Backend) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	return b.local.RangeScan(start, end)
}

func (b *Backend) Write(key keys.Key, value []byte) error {
	return b.execute("replicated write", writeCmd(key, value))
}

func (b *Backend) Clear() error {
	return b.execute("replicated clear", NewCmd(OpClear, nil, nil))
}

func (b *Backend) execute(op string, cmd Cmd) error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.node.Execute(ctx, cmd); err != nil {
		return dberrors.Backend(op, err)
	}
	return nil
}
