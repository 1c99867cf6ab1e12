// Package keys implements order-preserving composite binary keys.
//
// A key is a concatenation of tagged segments:
//
//	0x01 string  [len:4 big-endian][utf-8 bytes]
//	0x02 uint64  [8 bytes big-endian]
//	0x03 int64   [8 bytes big-endian, two's complement]
//	0x05 bool    [1 byte, 0 or 1]
//
// Tag 0x04 is reserved. Keys built from tuples with the same per-position
// types compare bytewise in tuple order, except that a shorter string sorts
// before any longer one and negative int64 values sort after non-negative
// ones.
package keys

import (
	"bytes"
	"encoding/hex"
)

// Key is an ordered binary key. Keys are never modified after construction.
type Key []byte

// Compare orders keys bytewise.
func (k Key) Compare(other Key) int {
	return bytes.Compare(k, other)
}

func (k Key) Equal(other Key) bool {
	return bytes.Equal(k, other)
}

func (k Key) HasPrefix(prefix Key) bool {
	return bytes.HasPrefix(k, prefix)
}

func (k Key) Clone() Key {
	if k == nil {
		return nil
	}
	return append(Key(make([]byte, 0, len(k))), k...)
}

// Successor returns the smallest key greater than every key prefixed by k:
// the last byte below 0xFF is incremented and everything after it dropped.
// Keys made only of 0xFF bytes (and the empty key) have no successor, which
// callers treat as an unbounded upper end.
func (k Key) Successor() (Key, bool) {
	for i := len(k) - 1; i >= 0; i-- {
		if k[i] == 0xFF {
			continue
		}
		next := make(Key, i+1)
		copy(next, k[:i+1])
		next[i]++
		return next, true
	}
	return nil, false
}

// String renders the display form, or hex when k is not a well-formed key.
func (k Key) String() string {
	if s, err := Display(k); err == nil {
		return s
	}
	return "0x" + hex.EncodeToString(k)
}
