// Package memory is an in-process ordered backend on a concurrent skip list.
package memory

import (
	"bytes"
	"sync"

	"github.com/zhangyunhao116/skipmap"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/keys"
)

type orderedMap = skipmap.FuncMap[[]byte, []byte]

func newOrderedMap() *orderedMap {
	return skipmap.NewFunc[[]byte, []byte](func(a, b []byte) bool {
		return bytes.Compare(a, b) < 0
	})
}

// Backend keeps every entry in memory. Keys and values are copied on the
// way in and out.
type Backend struct {
	// scans share mu; writes and Clear hold it exclusively so a scan never
	// observes half of a concurrent update sequence.
	mu         sync.RWMutex
	underlying *orderedMap
}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{underlying: newOrderedMap()}
}

func (b *Backend) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	if backend.Empty(start, end) {
		return nil, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []backend.Entry
	b.underlying.Range(func(k, v []byte) bool {
		if start != nil && bytes.Compare(k, start) < 0 {
			return true
		}
		if end != nil && bytes.Compare(k, end) >= 0 {
			return false
		}
		out = append(out, backend.Entry{
			Key:   keys.Key(k).Clone(),
			Value: append([]byte{}, v...),
		})
		return true
	})
	return out, nil
}

func (b *Backend) Write(key keys.Key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if value == nil {
		b.underlying.Delete(key)
		return nil
	}
	b.underlying.Store(key.Clone(), append([]byte{}, value...))
	return nil
}

func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.underlying = newOrderedMap()
	return nil
}

// Len reports the number of stored entries.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.underlying.Len()
}
