package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/backend/backendtest"
	"tuplekv/pkg/keys"
)

func TestConformance(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) backend.Backend { return New() })
}

func TestScanReturnsCopies(t *testing.T) {
	b := New()
	require.NoError(t, b.Write(keys.Pack1("k"), []byte("value")))

	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entries[0].Value[0] = 'X'
	entries[0].Key[len(entries[0].Key)-1] = 'z'

	again, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again[0].Value)
	assert.Equal(t, keys.Pack1("k"), again[0].Key)
}

func TestWriteCopiesInput(t *testing.T) {
	b := New()
	k := keys.Pack1("k")
	v := []byte("abc")
	require.NoError(t, b.Write(k, v))
	v[0] = 'X'
	k[len(k)-1] = 'z'

	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, keys.Pack1("k"), entries[0].Key)
	assert.Equal(t, []byte("abc"), entries[0].Value)
	assert.Equal(t, 1, b.Len())
}

func BenchmarkSet(b *testing.B) {
	be := New()
	val := []byte("value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := be.Write(keys.Pack2("bench", uint64(i)), val); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGet(b *testing.B) {
	be := New()
	for i := 0; i < 10000; i++ {
		_ = be.Write(keys.Pack2("bench", uint64(i)), []byte("value"))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := keys.Pack2("bench", uint64(i%10000))
		end, _ := k.Successor()
		if _, err := be.RangeScan(k, end); err != nil {
			b.Fatal(err)
		}
	}
}
