package kv

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/pkg/backend/memory"
	"tuplekv/pkg/compression"
	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
	"tuplekv/pkg/value"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.Set(keys.Pack2("users", uint64(1)), value.String("alice")))
	require.NoError(t, s.Set(keys.Pack2("users", uint64(2)), value.Object(map[string]value.Value{
		"admin": value.Bool(true),
		"tags":  value.Array(value.String("a"), value.String("b")),
	})))
	require.NoError(t, s.Set(keys.Pack2("blob", int64(-3)), value.Binary([]byte{0, 1, 255})))
	require.NoError(t, s.Set(keys.Pack1(true), value.Null()))
}

func TestDumpJSON(t *testing.T) {
	s := New(memory.New())
	seed(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.DumpJSON(&buf))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "alice", doc["users:1"])
	assert.Nil(t, doc["true"])
	assert.Contains(t, doc, "true")
	assert.Equal(t, map[string]any{
		value.BinaryMarker: true,
		"bytes":            []any{float64(0), float64(1), float64(255)},
	}, doc["blob:-3"])

	// members follow key order: strings sort by length prefix first
	assert.Less(t, strings.Index(buf.String(), `"blob:-3"`), strings.Index(buf.String(), `"users:1"`))
}

func TestDumpRestoreRoundTrip(t *testing.T) {
	src := New(memory.New())
	seed(t, src)

	var buf bytes.Buffer
	require.NoError(t, src.DumpJSON(&buf))

	dst, err := FromJSON(memory.New(), &buf)
	require.NoError(t, err)

	want, err := src.Entries()
	require.NoError(t, err)
	got, err := dst.Entries()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key)
		assert.True(t, want[i].Value.Equal(got[i].Value), "value of %s", want[i].Key)
	}
}

func TestRestoreIntegersComeBackAsI64(t *testing.T) {
	src := New(memory.New())
	k := keys.Pack1("n")
	require.NoError(t, src.Set(k, value.U64(5)))

	var buf bytes.Buffer
	require.NoError(t, src.DumpJSON(&buf))
	dst, err := FromJSON(memory.New(), &buf)
	require.NoError(t, err)

	got, ok, err := dst.Get(k)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.KindI64, got.Kind())
}

func TestRestoreMerges(t *testing.T) {
	s := New(memory.New())
	require.NoError(t, s.Set(keys.Pack1("keep"), value.I64(1)))

	n, err := s.RestoreJSON(strings.NewReader(`{"add":2,"7":3}`), false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, items, 3)

	got, ok, err := s.Get(keys.Pack1(uint64(7)))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(value.I64(3)))
}

func TestEmptyKeySurvivesDump(t *testing.T) {
	src := New(memory.New())
	require.NoError(t, src.Set(keys.Key{}, value.String("root")))

	var buf bytes.Buffer
	require.NoError(t, src.DumpJSON(&buf))
	assert.JSONEq(t, `{"":"root"}`, buf.String())

	dst, err := FromJSON(memory.New(), &buf)
	require.NoError(t, err)
	got, ok, err := dst.Get(keys.Key{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(value.String("root")))
}

func TestRestoreReplace(t *testing.T) {
	s := New(memory.New())
	require.NoError(t, s.Set(keys.Pack1("old"), value.I64(1)))

	n, err := s.RestoreJSON(strings.NewReader(`{"new":2}`), true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	items, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keys.Pack1("new"), items[0].Key)
}

func TestRejectedReplaceKeepsData(t *testing.T) {
	for _, doc := range []string{`not json`, `{"a":1,`, `[1]`, `{"k":{"` + value.BinaryMarker + `":true,"bytes":[999]}}`} {
		s := New(memory.New())
		require.NoError(t, s.Set(keys.Pack1("keep"), value.I64(1)))

		_, err := s.RestoreJSON(strings.NewReader(doc), true)
		require.Error(t, err, doc)

		_, ok, err := s.Get(keys.Pack1("keep"))
		require.NoError(t, err)
		assert.True(t, ok, "existing key lost after rejected document %q", doc)
	}

	s := New(memory.New())
	require.NoError(t, s.Set(keys.Pack1("keep"), value.I64(1)))
	_, err := s.Restore(strings.NewReader("\x1f\x8b garbage"), true)
	require.Error(t, err)
	_, ok, err := s.Get(keys.Pack1("keep"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRestoreRejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[1,2]`, `"x"`, `42`, `null`, `{`} {
		_, err := FromJSON(memory.New(), strings.NewReader(doc))
		assert.ErrorIs(t, err, dberrors.ErrInvalidArgument, doc)
	}
}

func TestRestoreRejectsBadValue(t *testing.T) {
	doc := `{"k":{"` + value.BinaryMarker + `":true,"bytes":[1,300]}}`
	_, err := FromJSON(memory.New(), strings.NewReader(doc))
	assert.ErrorIs(t, err, dberrors.ErrInvalidArgument)
}

func TestCompressedDump(t *testing.T) {
	for _, alg := range []compression.Algorithm{compression.None, compression.Gzip, compression.Zstd} {
		t.Run(string(alg), func(t *testing.T) {
			src := New(memory.New())
			seed(t, src)

			var buf bytes.Buffer
			n, err := src.Dump(&buf, alg)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			dst := New(memory.New())
			restored, err := dst.Restore(&buf, false)
			require.NoError(t, err)
			assert.Equal(t, 4, restored)
		})
	}
}
