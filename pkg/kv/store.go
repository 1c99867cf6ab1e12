// Package kv is the public face of tuplekv: typed values stored under
// tuple keys on a pluggable ordered backend.
package kv

import (
	"log/slog"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
	"tuplekv/pkg/value"
)

// Item is one decoded key/value pair.
type Item struct {
	Key   keys.Key
	Value value.Value
}

type Option func(*Store)

// WithCodec selects the payload codec. Every Store over the same backend
// must use the same codec.
func WithCodec(c value.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store owns no data itself; all state lives in the backend.
type Store struct {
	b      backend.Backend
	codec  value.Codec
	logger *slog.Logger
}

func New(b backend.Backend, opts ...Option) *Store {
	s := &Store{
		b:      b,
		codec:  value.DefaultCodec,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Backend() backend.Backend { return s.b }

func (s *Store) Codec() value.Codec { return s.codec }

// Get returns the value stored exactly under k. The lookup is a single
// range scan over [k, k+0x00), which holds k and nothing else.
func (s *Store) Get(k keys.Key) (value.Value, bool, error) {
	entries, err := s.b.RangeScan(k, exactEnd(k))
	if err != nil {
		return value.Value{}, false, dberrors.Backend("get", err)
	}
	if len(entries) == 0 || !entries[0].Key.Equal(k) {
		return value.Value{}, false, nil
	}
	v, err := s.codec.Unmarshal(entries[0].Value)
	if err != nil {
		return value.Value{}, false, err
	}
	return v, true, nil
}

// exactEnd is the smallest key sorting after k.
func exactEnd(k keys.Key) keys.Key {
	return append(k.Clone(), 0x00)
}

// Set stores v under k, replacing any previous value.
func (s *Store) Set(k keys.Key, v value.Value) error {
	payload, err := s.codec.Marshal(v)
	if err != nil {
		return err
	}
	if payload == nil {
		payload = []byte{}
	}
	if err := s.b.Write(k, payload); err != nil {
		return dberrors.Backend("set", err)
	}
	s.logger.Debug("set", "key", k.String(), "bytes", len(payload))
	return nil
}

// Delete removes k and returns the value it held, if any.
func (s *Store) Delete(k keys.Key) (value.Value, bool, error) {
	prev, ok, err := s.Get(k)
	if err != nil {
		return value.Value{}, false, err
	}
	if !ok {
		return value.Value{}, false, nil
	}
	if err := s.b.Write(k, nil); err != nil {
		return value.Value{}, false, dberrors.Backend("delete", err)
	}
	s.logger.Debug("delete", "key", k.String())
	return prev, true, nil
}

// Entries returns every pair in key order.
func (s *Store) Entries() ([]Item, error) {
	return s.scan(Range{})
}

// Clear removes every key from the backend.
func (s *Store) Clear() error {
	if err := s.b.Clear(); err != nil {
		return dberrors.Backend("clear", err)
	}
	s.logger.Info("store cleared")
	return nil
}

// List starts a range query.
func (s *Store) List() *ListBuilder {
	return &ListBuilder{s: s}
}

// scan performs exactly one backend range scan and decodes the payloads in
// the order the backend returned them.
func (s *Store) scan(r Range) ([]Item, error) {
	entries, err := s.b.RangeScan(r.Start, r.End)
	if err != nil {
		return nil, dberrors.Backend("range-scan", err)
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		v, err := s.codec.Unmarshal(e.Value)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Key: e.Key, Value: v})
	}
	return items, nil
}
