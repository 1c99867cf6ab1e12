// Package backend defines the ordered byte store that key/value stores scan
// and write through.
package backend

import (
	"tuplekv/pkg/keys"
)

// Entry is one stored pair as returned by RangeScan.
type Entry struct {
	Key   keys.Key `json:"key"`
	Value []byte   `json:"value"`
}

// Backend is an ordered byte-keyed store. Implementations synchronize
// internally: RangeScan, Write and Clear are atomic with respect to each
// other.
type Backend interface {
	// RangeScan returns every entry with start <= key < end in ascending key
	// order. A nil bound is unbounded on that side.
	RangeScan(start, end keys.Key) ([]Entry, error)
	// Write stores value under key, or deletes key when value is nil.
	Write(key keys.Key, value []byte) error
	// Clear removes every entry.
	Clear() error
}

// InRange reports whether k lies in [start, end) with nil bounds unbounded.
func InRange(k, start, end keys.Key) bool {
	if start != nil && k.Compare(start) < 0 {
		return false
	}
	return end == nil || k.Compare(end) < 0
}

// Empty reports whether [start, end) cannot contain any key.
func Empty(start, end keys.Key) bool {
	return start != nil && end != nil && start.Compare(end) >= 0
}
