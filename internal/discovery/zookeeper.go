// Package discovery lets nodes started without a static peer list find
// each other, through ZooKeeper or mDNS on a local network.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"

	"tuplekv/internal/config"
)

const (
	sessionTimeout = 5 * time.Second
	connectTimeout = 10 * time.Second
	pollInterval   = 200 * time.Millisecond
	retryDelay     = 2 * time.Second
)

// zkConn is the part of *zk.Conn the registry needs.
type zkConn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	Set(path string, data []byte, version int32) (*zk.Stat, error)
	Get(path string) ([]byte, *zk.Stat, error)
	Children(path string) ([]string, *zk.Stat, error)
	ChildrenW(path string) ([]string, *zk.Stat, <-chan zk.Event, error)
	State() zk.State
	Close()
}

// Registry keeps one ephemeral znode per member under <root>/members,
// named by raft ID and holding the member's base URL.
type Registry struct {
	conn zkConn
	root string
	self config.Peer
}

// Connect dials the ensemble. servers: ["zk1:2181", "zk2:2181"]
func Connect(servers []string, root string, self config.Peer) (*Registry, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("zk connect: %w", err)
	}
	return &Registry{conn: conn, root: strings.TrimRight(root, "/"), self: self}, nil
}

func (r *Registry) Close() error {
	r.conn.Close()
	return nil
}

func (r *Registry) membersPath() string {
	return r.root + "/members"
}

func (r *Registry) ensurePath(path string) error {
	cur := ""
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		cur = cur + "/" + p
		exists, _, err := r.conn.Exists(cur)
		if err != nil {
			return err
		}
		if !exists {
			_, err = r.conn.Create(cur, nil, 0, zk.WorldACL(zk.PermAll))
			if err != nil && !errors.Is(err, zk.ErrNodeExists) {
				return err
			}
		}
	}
	return nil
}

// Register creates the ephemeral znode for this node. A znode left over
// from an expiring session gets the current address.
func (r *Registry) Register() error {
	if err := r.waitConnected(connectTimeout); err != nil {
		return err
	}
	if err := r.ensurePath(r.membersPath()); err != nil {
		return fmt.Errorf("ensure members path: %w", err)
	}

	nodePath := r.membersPath() + "/" + strconv.FormatUint(r.self.ID, 10)
	addr := []byte(r.self.Address)
	_, err := r.conn.Create(nodePath, addr, zk.FlagEphemeral, zk.WorldACL(zk.PermAll))
	if errors.Is(err, zk.ErrNodeExists) {
		_, err = r.conn.Set(nodePath, addr, -1)
	}
	if err != nil {
		return fmt.Errorf("create ephemeral node: %w", err)
	}

	slog.Info("registered in zookeeper", "path", nodePath, "addr", r.self.Address)
	return nil
}

// Members lists the registered members ordered by ID.
func (r *Registry) Members() ([]config.Peer, error) {
	children, _, err := r.conn.Children(r.membersPath())
	if err != nil {
		return nil, fmt.Errorf("zk children: %w", err)
	}
	return r.resolve(children)
}

func (r *Registry) resolve(children []string) ([]config.Peer, error) {
	peers := make([]config.Peer, 0, len(children))
	for _, name := range children {
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil || id == 0 {
			slog.Warn("ignoring foreign znode", "name", name)
			continue
		}
		data, _, err := r.conn.Get(r.membersPath() + "/" + name)
		if errors.Is(err, zk.ErrNoNode) {
			// left between Children and Get
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("zk get %s: %w", name, err)
		}
		peers = append(peers, config.Peer{ID: id, Address: string(data)})
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].ID < peers[j].ID })
	return peers, nil
}

// WaitForMembers blocks until at least n members are registered.
func (r *Registry) WaitForMembers(ctx context.Context, n int) ([]config.Peer, error) {
	for {
		children, _, ch, err := r.conn.ChildrenW(r.membersPath())
		if err != nil {
			return nil, fmt.Errorf("zk children: %w", err)
		}
		if len(children) >= n {
			peers, err := r.resolve(children)
			if err != nil {
				return nil, err
			}
			if len(peers) >= n {
				return peers, nil
			}
		}
		slog.Info("waiting for raft members", "have", len(children), "want", n)
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// RunWatch calls onChange with the member list now and after every change
// until ctx is done.
func (r *Registry) RunWatch(ctx context.Context, onChange func([]config.Peer)) {
	go func() {
		for {
			children, _, ch, err := r.conn.ChildrenW(r.membersPath())
			if err != nil {
				slog.Warn("zk watch failed", "error", err)
				select {
				case <-time.After(retryDelay):
					continue
				case <-ctx.Done():
					return
				}
			}

			peers, err := r.resolve(children)
			if err != nil {
				slog.Warn("zk resolve members failed", "error", err)
			} else {
				onChange(peers)
			}

			select {
			case ev := <-ch:
				slog.Debug("zk event", "type", ev.Type, "path", ev.Path)
			case <-ctx.Done():
				slog.Info("zk watch stopped")
				return
			}
		}
	}()
}

func (r *Registry) waitConnected(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		st := r.conn.State()
		if st == zk.StateConnected || st == zk.StateHasSession {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("zk: not connected after %s, state=%v", timeout, st)
		}
		time.Sleep(pollInterval)
	}
}
