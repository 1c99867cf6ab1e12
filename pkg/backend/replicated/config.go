package replicated

import (
	"time"

	"go.etcd.io/etcd/raft/v3"
)

type Peer struct {
	ID      uint64 `yaml:"id"`
	Address string `yaml:"address"`
}

type Config struct {
	ID                        uint64
	Peers                     []Peer
	ElectionTick              int
	HeartbeatTick             int
	MaxSizePerMsg             uint64
	MaxCommittedSizePerReady  uint64
	MaxUncommittedEntriesSize uint64
	MaxInflightMsgs           int
	CheckQuorum               bool
	PreVote                   bool
	// TickInterval is the wall time of one raft tick.
	TickInterval time.Duration
	// ProposalTimeout bounds how long Write and Clear wait for the local
	// apply of their entry.
	ProposalTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ID:                        1,
		ElectionTick:              10,
		HeartbeatTick:             2,
		MaxSizePerMsg:             1 << 20,
		MaxCommittedSizePerReady:  4 << 20,
		MaxUncommittedEntriesSize: 16 << 20,
		MaxInflightMsgs:           256,
		CheckQuorum:               true,
		PreVote:                   true,
		TickInterval:              100 * time.Millisecond,
		ProposalTimeout:           5 * time.Second,
	}
}

func toRaftConfig(c *Config) *raft.Config {
	return &raft.Config{
		ID:                        c.ID,
		ElectionTick:              c.ElectionTick,
		HeartbeatTick:             c.HeartbeatTick,
		MaxSizePerMsg:             c.MaxSizePerMsg,
		MaxCommittedSizePerReady:  c.MaxCommittedSizePerReady,
		MaxUncommittedEntriesSize: c.MaxUncommittedEntriesSize,
		MaxInflightMsgs:           c.MaxInflightMsgs,
		CheckQuorum:               c.CheckQuorum,
		PreVote:                   c.PreVote,
	}
}
