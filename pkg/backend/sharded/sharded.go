// Package sharded spreads keys over several backends. Keys are placed by
// their first tuple segment, so everything under one leading segment lives
// on one shard and prefix scans within it touch a single backend.
package sharded

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

const DefaultReplicas = 128

// Backend spreads keys over several backends by the first tuple segment.
// Each call is atomic only within one shard: Clear empties the shards one
// after another, so a concurrent scan spanning shards may see some of them
// already empty and others not yet.
type Backend struct {
	ring   *Ring
	shards map[string]backend.Backend
}

var _ backend.Backend = (*Backend)(nil)

// New places the named shards on a ring with replicas virtual nodes each.
func New(shards map[string]backend.Backend, replicas int) (*Backend, error) {
	if len(shards) == 0 {
		return nil, errors.New("sharded: no shards")
	}
	ring := NewRing(replicas)
	own := make(map[string]backend.Backend, len(shards))
	for name, b := range shards {
		if b == nil {
			return nil, fmt.Errorf("sharded: shard %q is nil", name)
		}
		ring.Add(name)
		own[name] = b
	}
	return &Backend{ring: ring, shards: own}, nil
}

func firstSegment(k keys.Key) (keys.Key, bool) {
	d := keys.NewDecoder(k)
	if _, err := d.Next(); err != nil {
		return nil, false
	}
	return k[:len(k)-d.Len()], true
}

// routingKey is the first segment of k, or all of k when it does not
// start with a well-formed segment.
func routingKey(k keys.Key) keys.Key {
	if seg, ok := firstSegment(k); ok {
		return seg
	}
	return k
}

func (b *Backend) owner(k keys.Key) (string, backend.Backend) {
	name, _ := b.ring.Owner(routingKey(k))
	return name, b.shards[name]
}

// single reports the one shard holding all of [start, end), if any: the
// interval must stay below the successor of start's first segment.
func (b *Backend) single(start, end keys.Key) (backend.Backend, bool) {
	if start == nil || end == nil {
		return nil, false
	}
	seg, ok := firstSegment(start)
	if !ok {
		return nil, false
	}
	limit, ok := seg.Successor()
	if !ok || end.Compare(limit) > 0 {
		return nil, false
	}
	_, sh := b.owner(start)
	return sh, true
}

func (b *Backend) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	if backend.Empty(start, end) {
		return nil, nil
	}
	if sh, ok := b.single(start, end); ok {
		return sh.RangeScan(start, end)
	}

	type result struct {
		entries []backend.Entry
		err     error
	}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]result, len(b.shards))
	)
	for name, sh := range b.shards {
		wg.Add(1)
		go func(name string, sh backend.Backend) {
			defer wg.Done()
			entries, err := sh.RangeScan(start, end)
			mu.Lock()
			results[name] = result{entries: entries, err: err}
			mu.Unlock()
		}(name, sh)
	}
	wg.Wait()

	var (
		merged []backend.Entry
		errs   []error
	)
	for name, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("shard %s: %w", name, r.err))
			continue
		}
		merged = append(merged, r.entries...)
	}
	if len(errs) > 0 {
		return nil, dberrors.Backend("sharded scan", errors.Join(errs...))
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Key.Compare(merged[j].Key) < 0
	})
	return merged, nil
}

func (b *Backend) Write(key keys.Key, value []byte) error {
	name, sh := b.owner(key)
	if err := sh.Write(key, value); err != nil {
		return dberrors.Backend("sharded write", fmt.Errorf("shard %s: %w", name, err))
	}
	return nil
}

func (b *Backend) Clear() error {
	var errs []error
	for name, sh := range b.shards {
		if err := sh.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("shard %s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return dberrors.Backend("sharded clear", errors.Join(errs...))
	}
	return nil
}

// ShardOf names the shard that owns k.
func (b *Backend) ShardOf(k keys.Key) string {
	name, _ := b.owner(k)
	return name
}

func (b *Backend) Shards() []string {
	return b.ring.Shards()
}

// Close closes every shard that has a Close method.
func (b *Backend) Close() error {
	var errs []error
	for name, sh := range b.shards {
		if c, ok := sh.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("shard %s: %w", name, err))
			}
		}
	}
	slog.Debug("sharded backend closed", "shards", len(b.shards))
	return errors.Join(errs...)
}
