package replicated

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.etcd.io/etcd/raft/v3/raftpb"

	"tuplekv/pkg/dberrors"
)

// RaftPath is where every node accepts raft messages.
const RaftPath = "/api/internal/raft"

// HTTPTransport delivers raft messages as JSON POSTs to RaftPath on the
// recipient's base URL. A message is attempted up to attempts times with a
// linearly growing pause; the caller's context bounds the whole delivery.
type HTTPTransport struct {
	client   *http.Client
	attempts int
	backoff  time.Duration

	mu    sync.RWMutex
	addrs map[uint64]string
}

func NewTransport(peers map[uint64]string) *HTTPTransport {
	t := &HTTPTransport{
		client:   &http.Client{Timeout: 3 * time.Second},
		attempts: 3,
		backoff:  100 * time.Millisecond,
		addrs:    make(map[uint64]string, len(peers)),
	}
	for id, addr := range peers {
		t.addrs[id] = addr
	}
	return t
}

func (t *HTTPTransport) AddPeer(id uint64, addr string) { t.setAddr(id, addr) }

func (t *HTTPTransport) UpdatePeer(id uint64, addr string) { t.setAddr(id, addr) }

func (t *HTTPTransport) RemovePeer(id uint64) {
	t.mu.Lock()
	delete(t.addrs, id)
	t.mu.Unlock()
}

func (t *HTTPTransport) setAddr(id uint64, addr string) {
	t.mu.Lock()
	t.addrs[id] = addr
	t.mu.Unlock()
}

func (t *HTTPTransport) addr(id uint64) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.addrs[id]
	return a, ok
}

// Send stops retrying as soon as ctx is done and reports ctx's error.
func (t *HTTPTransport) Send(ctx context.Context, msg raftpb.Message) error {
	base, ok := t.addr(msg.To)
	if !ok {
		return dberrors.Backend("raft send", fmt.Errorf("unknown peer %d", msg.To))
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return dberrors.Backend("raft send", err)
	}

	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		lastErr = t.post(ctx, base+RaftPath, body)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return dberrors.Backend("raft send", ctx.Err())
		}
		slog.Debug("raft message not delivered", "to", msg.To, "type", msg.Type, "attempt", attempt, "error", lastErr)

		pause := time.NewTimer(t.backoff * time.Duration(attempt))
		select {
		case <-pause.C:
		case <-ctx.Done():
			pause.Stop()
			return dberrors.Backend("raft send", ctx.Err())
		}
	}
	return dberrors.Backend("raft send", fmt.Errorf("peer %d after %d attempts: %w", msg.To, t.attempts, lastErr))
}

func (t *HTTPTransport) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
}
