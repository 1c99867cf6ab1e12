package kv

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/compression"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
	"tuplekv/pkg/value"
)

// DumpJSON writes every pair as one JSON object mapping the display form of
// the key to the JSON form of the value. Members appear in key order.
func (s *Store) DumpJSON(w io.Writer) error {
	items, err := s.Entries()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := bw.WriteByte('{'); err != nil {
		return err
	}
	for i, it := range items {
		name, err := keys.Display(it.Key)
		if err != nil {
			return dberrors.Wrap(dberrors.KindInvalidEncoding, "dump", err)
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		v, err := json.Marshal(it.Value.ToJSON())
		if err != nil {
			return dberrors.Wrap(dberrors.KindPayloadCodec, "dump", err)
		}
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.Write(k)
		bw.WriteByte(':')
		bw.Write(v)
	}
	bw.WriteByte('}')
	if err := bw.Flush(); err != nil {
		return err
	}
	s.logger.Info("dumped store", "entries", len(items))
	return nil
}

// DecodeJSON parses a document produced by DumpJSON into items ordered by
// key. Nothing is written; a malformed document fails as a whole.
func DecodeJSON(r io.Reader) ([]Item, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, dberrors.Wrap(dberrors.KindInvalidArgument, "restore", err)
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, dberrors.New(dberrors.KindInvalidArgument, "restore", "document must be a JSON object")
	}

	items := make([]Item, 0, len(doc))
	for name, x := range doc {
		v, err := value.FromJSON(x)
		if err != nil {
			return nil, dberrors.Wrap(dberrors.KindInvalidArgument, "restore "+name, err)
		}
		items = append(items, Item{Key: keys.ParseDisplay(name), Value: v})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Key.Compare(items[j].Key) < 0
	})
	return items, nil
}

// RestoreJSON decodes the whole document before touching the store, so a
// rejected document leaves it unchanged. With replace the store is cleared
// first; otherwise keys missing from the document are left alone. It
// returns the number of pairs written.
func (s *Store) RestoreJSON(r io.Reader, replace bool) (int, error) {
	items, err := DecodeJSON(r)
	if err != nil {
		return 0, err
	}
	return s.load(items, replace)
}

func (s *Store) load(items []Item, replace bool) (int, error) {
	if replace {
		if err := s.Clear(); err != nil {
			return 0, err
		}
	}
	for i, it := range items {
		if err := s.Set(it.Key, it.Value); err != nil {
			return i, err
		}
	}
	s.logger.Info("restored store", "entries", len(items), "replace", replace)
	return len(items), nil
}

// FromJSON builds a Store over b and loads a JSON dump into it.
func FromJSON(b backend.Backend, r io.Reader, opts ...Option) (*Store, error) {
	s := New(b, opts...)
	if _, err := s.RestoreJSON(r, false); err != nil {
		return nil, err
	}
	return s, nil
}

// Dump writes a JSON dump compressed with alg and returns the number of
// bytes written to w.
func (s *Store) Dump(w io.Writer, alg compression.Algorithm) (int64, error) {
	var buf bytes.Buffer
	if err := s.DumpJSON(&buf); err != nil {
		return 0, err
	}
	return compression.Compress(alg, &buf, w)
}

// Restore loads a dump written by Dump with the semantics of RestoreJSON.
// The compression is detected from the stream header.
func (s *Store) Restore(r io.Reader, replace bool) (int, error) {
	dr, err := compression.NewReader(r)
	if err != nil {
		return 0, dberrors.Wrap(dberrors.KindInvalidArgument, "restore", err)
	}
	defer dr.Close()
	return s.RestoreJSON(dr, replace)
}
