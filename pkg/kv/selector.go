package kv

import (
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

// Range is a half-open key interval. A nil bound is unbounded.
type Range struct {
	Start keys.Key
	End   keys.Key
}

// Resolve turns an optional prefix, start and end (nil = absent) into the
// single interval a query scans.
//
//	prefix | start | end | range
//	   -   |   -   |  -  | everything
//	   P   |   -   |  -  | [P, successor(P)), unbounded above when P has none
//	   -   |   S   |  -  | [S, +inf)
//	   -   |   -   |  E  | (-inf, E)
//	   -   |   S   |  E  | [S, E)
//	   P   |   S   |  -  | [S, +inf), the prefix is ignored
//	   P   |   -   |  E  | [P, E)
//	   P   |   S   |  E  | InvalidSelector
func Resolve(prefix, start, end keys.Key) (Range, error) {
	switch {
	case prefix != nil && start != nil && end != nil:
		return Range{}, dberrors.ErrInvalidSelector
	case prefix != nil && start == nil && end == nil:
		succ, ok := prefix.Successor()
		if !ok {
			return Range{Start: prefix}, nil
		}
		return Range{Start: prefix, End: succ}, nil
	case start != nil:
		// covers start-only, start+end and the prefix+start quirk
		return Range{Start: start, End: end}, nil
	case prefix != nil:
		return Range{Start: prefix, End: end}, nil
	default:
		return Range{End: end}, nil
	}
}

// ListBuilder collects selectors for one range query. Setters return the
// builder so calls can be chained; passing nil clears a selector.
type ListBuilder struct {
	s                  *Store
	prefix, start, end keys.Key
}

func (l *ListBuilder) Prefix(k keys.Key) *ListBuilder {
	l.prefix = k
	return l
}

func (l *ListBuilder) Start(k keys.Key) *ListBuilder {
	l.start = k
	return l
}

func (l *ListBuilder) End(k keys.Key) *ListBuilder {
	l.end = k
	return l
}

// Range resolves the selectors without scanning.
func (l *ListBuilder) Range() (Range, error) {
	return Resolve(l.prefix, l.start, l.end)
}

// Entries resolves the selectors and runs the scan.
func (l *ListBuilder) Entries() ([]Item, error) {
	r, err := l.Range()
	if err != nil {
		return nil, err
	}
	return l.s.scan(r)
}
