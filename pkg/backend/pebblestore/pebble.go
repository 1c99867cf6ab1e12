// Package pebblestore persists entries in a Pebble LSM tree.
package pebblestore

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

type Options struct {
	// Sync makes every write durable before it returns.
	Sync bool
}

func DefaultOptions() Options {
	return Options{Sync: true}
}

type Backend struct {
	// Clear looks up the stored key span and then drops it; mu keeps writes
	// out of that window.
	mu        sync.RWMutex
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

var _ backend.Backend = (*Backend)(nil)

// Open opens (or creates) a Pebble database in dir.
func Open(dir string, opts Options) (*Backend, error) {
	pebbleOpts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}
	db, err := pebble.Open(dir, pebbleOpts)
	if err != nil {
		return nil, dberrors.Backend("pebble open", fmt.Errorf("%s: %w", dir, err))
	}
	writeOpts := pebble.NoSync
	if opts.Sync {
		writeOpts = pebble.Sync
	}
	return &Backend{db: db, writeOpts: writeOpts}, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) RangeScan(start, end keys.Key) ([]backend.Entry, error) {
	if backend.Empty(start, end) {
		return nil, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, dberrors.Backend("pebble scan", err)
	}

	var out []backend.Entry
	for valid := iter.First(); valid; valid = iter.Next() {
		// key and value buffers are reused by Next
		out = append(out, backend.Entry{
			Key:   keys.Key(iter.Key()).Clone(),
			Value: append([]byte{}, iter.Value()...),
		})
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, dberrors.Backend("pebble scan", err)
	}
	if err := iter.Close(); err != nil {
		return nil, dberrors.Backend("pebble scan", err)
	}
	return out, nil
}

func (b *Backend) Write(key keys.Key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if value == nil {
		if err := b.db.Delete(key, b.writeOpts); err != nil {
			return dberrors.Backend("pebble delete", err)
		}
		return nil
	}
	if err := b.db.Set(key, value, b.writeOpts); err != nil {
		return dberrors.Backend("pebble set", err)
	}
	return nil
}

// Clear drops every key with a single range tombstone spanning the first
// and last stored keys.
func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	iter, err := b.db.NewIter(nil)
	if err != nil {
		return dberrors.Backend("pebble clear", err)
	}
	var first, last []byte
	if iter.First() {
		first = append([]byte{}, iter.Key()...)
		if iter.Last() {
			last = append([]byte{}, iter.Key()...)
		}
	}
	err = iter.Error()
	if cerr := iter.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return dberrors.Backend("pebble clear", err)
	}
	if first == nil {
		return nil
	}
	// the range end is exclusive; last+0x00 is the smallest key after last
	if err := b.db.DeleteRange(first, append(last, 0x00), b.writeOpts); err != nil {
		return dberrors.Backend("pebble clear", err)
	}
	return nil
}
