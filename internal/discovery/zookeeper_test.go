package discovery

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/internal/config"
)

// fakeConn is an in-memory znode tree with child watches.
type fakeConn struct {
	mu       sync.Mutex
	nodes    map[string][]byte
	watchers map[string][]chan zk.Event
	state    zk.State
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		nodes:    make(map[string][]byte),
		watchers: make(map[string][]chan zk.Event),
		state:    zk.StateHasSession,
	}
}

func parent(path string) string {
	return path[:strings.LastIndex(path, "/")]
}

func (f *fakeConn) fire(dir string) {
	for _, ch := range f.watchers[dir] {
		ch <- zk.Event{Type: zk.EventNodeChildrenChanged, Path: dir}
		close(ch)
	}
	delete(f.watchers, dir)
}

func (f *fakeConn) Exists(path string) (bool, *zk.Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.nodes[path]
	return ok, &zk.Stat{}, nil
}

func (f *fakeConn) Create(path string, data []byte, _ int32, _ []zk.ACL) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.nodes[path]; ok {
		return "", zk.ErrNodeExists
	}
	f.nodes[path] = data
	f.fire(parent(path))
	return path, nil
}

func (f *fakeConn) Set(path string, data []byte, _ int32) (*zk.Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.nodes[path]; !ok {
		return nil, zk.ErrNoNode
	}
	f.nodes[path] = data
	return &zk.Stat{}, nil
}

func (f *fakeConn) Get(path string) ([]byte, *zk.Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.nodes[path]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return data, &zk.Stat{}, nil
}

func (f *fakeConn) children(path string) []string {
	var out []string
	for p := range f.nodes {
		if parent(p) == path {
			out = append(out, p[len(path)+1:])
		}
	}
	sort.Strings(out)
	return out
}

func (f *fakeConn) Children(path string) ([]string, *zk.Stat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.children(path), &zk.Stat{}, nil
}

func (f *fakeConn) ChildrenW(path string) ([]string, *zk.Stat, <-chan zk.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan zk.Event, 1)
	f.watchers[path] = append(f.watchers[path], ch)
	return f.children(path), &zk.Stat{}, ch, nil
}

func (f *fakeConn) State() zk.State { return f.state }
func (f *fakeConn) Close()          {}

func registry(conn *fakeConn, id uint64, addr string) *Registry {
	return &Registry{conn: conn, root: "/tuplekv", self: config.Peer{ID: id, Address: addr}}
}

func TestRegisterAndMembers(t *testing.T) {
	conn := newFakeConn()
	require.NoError(t, registry(conn, 2, "http://b:8080").Register())
	require.NoError(t, registry(conn, 1, "http://a:8080").Register())

	_, err := conn.Create("/tuplekv/members/not-a-node", nil, 0, nil)
	require.NoError(t, err)

	members, err := registry(conn, 1, "").Members()
	require.NoError(t, err)
	assert.Equal(t, []config.Peer{{ID: 1, Address: "http://a:8080"}, {ID: 2, Address: "http://b:8080"}}, members)
}

func TestRegisterOverwritesStaleAddress(t *testing.T) {
	conn := newFakeConn()
	require.NoError(t, registry(conn, 1, "http://old:8080").Register())
	require.NoError(t, registry(conn, 1, "http://new:8080").Register())

	data, _, err := conn.Get("/tuplekv/members/1")
	require.NoError(t, err)
	assert.Equal(t, "http://new:8080", string(data))
}

func TestRegisterNotConnected(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the connect timeout")
	}
	conn := newFakeConn()
	conn.state = zk.StateDisconnected
	assert.Error(t, registry(conn, 1, "x").Register())
}

func TestWaitForMembers(t *testing.T) {
	conn := newFakeConn()
	require.NoError(t, registry(conn, 1, "http://a").Register())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan []config.Peer, 1)
	go func() {
		peers, err := registry(conn, 1, "").WaitForMembers(ctx, 2)
		if err == nil {
			done <- peers
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, registry(conn, 2, "http://b").Register())

	peers := <-done
	assert.Len(t, peers, 2)
}

func TestWaitForMembersCancelled(t *testing.T) {
	conn := newFakeConn()
	require.NoError(t, registry(conn, 1, "http://a").Register())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := registry(conn, 1, "").WaitForMembers(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWatch(t *testing.T) {
	conn := newFakeConn()
	require.NoError(t, registry(conn, 1, "http://a").Register())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan []config.Peer, 4)
	registry(conn, 1, "").RunWatch(ctx, func(p []config.Peer) { updates <- p })

	first := <-updates
	assert.Len(t, first, 1)

	require.NoError(t, registry(conn, 3, "http://c").Register())
	select {
	case second := <-updates:
		assert.Len(t, second, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not report the new member")
	}
}
