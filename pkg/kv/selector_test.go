package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/pkg/dberrors"
	"tuplekv/pkg/keys"
)

func TestResolve(t *testing.T) {
	p := keys.Pack1(uint64(1))
	s := keys.Pack2(uint64(1), int64(5))
	e := keys.Pack2(uint64(2), int64(0))
	pSucc, ok := p.Successor()
	require.True(t, ok)

	tests := []struct {
		name             string
		prefix, start, e keys.Key
		want             Range
	}{
		{name: "none", want: Range{}},
		{name: "prefix", prefix: p, want: Range{Start: p, End: pSucc}},
		{name: "start", start: s, want: Range{Start: s}},
		{name: "end", e: e, want: Range{End: e}},
		{name: "start+end", start: s, e: e, want: Range{Start: s, End: e}},
		{name: "prefix+start ignores prefix", prefix: p, start: s, want: Range{Start: s}},
		{name: "prefix+end", prefix: p, e: e, want: Range{Start: p, End: e}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.prefix, tt.start, tt.e)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAllThree(t *testing.T) {
	k := keys.Pack1("x")
	_, err := Resolve(k, k, k)
	require.Error(t, err)
	assert.ErrorIs(t, err, dberrors.ErrInvalidSelector)
}

func TestResolvePrefixWithoutSuccessor(t *testing.T) {
	p := keys.Key{0xFF, 0xFF}
	got, err := Resolve(p, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: p}, got)

	// the empty prefix is present but matches everything
	got, err = Resolve(keys.Key{}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got.End)
}

func TestListBuilderChaining(t *testing.T) {
	s := New(nil)
	a, b := keys.Pack1("a"), keys.Pack1("b")

	r, err := s.List().Start(a).End(b).Range()
	require.NoError(t, err)
	assert.Equal(t, Range{Start: a, End: b}, r)

	r, err = s.List().Prefix(a).Start(b).Start(nil).Range()
	require.NoError(t, err)
	succ, _ := a.Successor()
	assert.Equal(t, Range{Start: a, End: succ}, r)
}
