// Package backendtest checks that a backend.Backend honours the contract.
package backendtest

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuplekv/pkg/backend"
	"tuplekv/pkg/keys"
)

// Factory returns an empty backend. Cleanup is registered on t.
type Factory func(t *testing.T) backend.Backend

// Run exercises b with every conformance case as a subtest.
func Run(t *testing.T, newBackend Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, b backend.Backend)
	}{
		{"EmptyScan", testEmptyScan},
		{"WriteOverwriteDelete", testWriteOverwriteDelete},
		{"ScanOrder", testScanOrder},
		{"HalfOpenBounds", testHalfOpenBounds},
		{"PrefixRange", testPrefixRange},
		{"InvertedRange", testInvertedRange},
		{"Clear", testClear},
		{"BinarySafe", testBinarySafe},
		{"DeleteMissing", testDeleteMissing},
		{"ConcurrentWrites", testConcurrentWrites},
		{"ClearDuringWrites", testClearDuringWrites},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newBackend(t))
		})
	}
}

func scanKeys(t *testing.T, b backend.Backend, start, end keys.Key) []keys.Key {
	t.Helper()
	entries, err := b.RangeScan(start, end)
	require.NoError(t, err)
	out := make([]keys.Key, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func testEmptyScan(t *testing.T, b backend.Backend) {
	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testWriteOverwriteDelete(t *testing.T, b backend.Backend) {
	k := keys.Pack2("a", uint64(1))
	require.NoError(t, b.Write(k, []byte("v1")))
	require.NoError(t, b.Write(k, []byte("v2")))

	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, k, entries[0].Key)
	assert.Equal(t, []byte("v2"), entries[0].Value)

	require.NoError(t, b.Write(k, nil))
	assert.Empty(t, scanKeys(t, b, nil, nil))
}

func testScanOrder(t *testing.T, b backend.Backend) {
	for _, i := range []uint64{7, 3, 9, 1, 5} {
		require.NoError(t, b.Write(keys.Pack1(i), []byte(fmt.Sprint(i))))
	}
	got := scanKeys(t, b, nil, nil)
	want := []keys.Key{keys.Pack1(uint64(1)), keys.Pack1(uint64(3)), keys.Pack1(uint64(5)),
		keys.Pack1(uint64(7)), keys.Pack1(uint64(9))}
	assert.Equal(t, want, got)
}

func testHalfOpenBounds(t *testing.T, b backend.Backend) {
	for i := uint64(1); i <= 5; i++ {
		require.NoError(t, b.Write(keys.Pack2(uint64(99), i), []byte{byte(i * 10)}))
	}
	entries, err := b.RangeScan(keys.Pack2(uint64(99), uint64(2)), keys.Pack2(uint64(99), uint64(5)))
	require.NoError(t, err)
	var vals []byte
	for _, e := range entries {
		vals = append(vals, e.Value...)
	}
	assert.Equal(t, []byte{20, 30, 40}, vals)

	assert.Len(t, scanKeys(t, b, keys.Pack2(uint64(99), uint64(4)), nil), 2)
	assert.Len(t, scanKeys(t, b, nil, keys.Pack2(uint64(99), uint64(2))), 1)
	// start == end is empty even when the key exists
	assert.Empty(t, scanKeys(t, b, keys.Pack2(uint64(99), uint64(3)), keys.Pack2(uint64(99), uint64(3))))
}

func testPrefixRange(t *testing.T, b backend.Backend) {
	for _, p := range []uint64{1, 2} {
		for i := uint64(0); i < 10; i++ {
			require.NoError(t, b.Write(keys.Pack2(p, i), []byte{byte(i)}))
		}
	}
	prefix := keys.Pack1(uint64(1))
	end, ok := prefix.Successor()
	require.True(t, ok)

	got := scanKeys(t, b, prefix, end)
	require.Len(t, got, 10)
	for i, k := range got {
		p, n, err := keys.Unpack2[uint64, uint64](k)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), p)
		assert.Equal(t, uint64(i), n)
	}
}

func testInvertedRange(t *testing.T, b backend.Backend) {
	require.NoError(t, b.Write(keys.Pack1(uint64(5)), []byte("x")))
	assert.Empty(t, scanKeys(t, b, keys.Pack1(uint64(9)), keys.Pack1(uint64(1))))
}

func testClear(t *testing.T, b backend.Backend) {
	for i := uint64(0); i < 20; i++ {
		require.NoError(t, b.Write(keys.Pack1(i), []byte("x")))
	}
	require.NoError(t, b.Clear())
	assert.Empty(t, scanKeys(t, b, nil, nil))

	require.NoError(t, b.Write(keys.Pack1("after"), []byte("y")))
	assert.Len(t, scanKeys(t, b, nil, nil), 1)
}

func testBinarySafe(t *testing.T, b backend.Backend) {
	k := keys.Key{0x00, 0xFF, 0x00}
	v := []byte{0x00, 0x00, 0xFF}
	require.NoError(t, b.Write(k, v))
	require.NoError(t, b.Write(keys.Key{0xFF, 0xFF}, []byte{}))

	entries, err := b.RangeScan(nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, k, entries[0].Key)
	assert.Equal(t, v, entries[0].Value)
	assert.Equal(t, keys.Key{0xFF, 0xFF}, entries[1].Key)
	assert.Empty(t, entries[1].Value)
}

func testDeleteMissing(t *testing.T, b backend.Backend) {
	assert.NoError(t, b.Write(keys.Pack1("missing"), nil))
}

func testConcurrentWrites(t *testing.T, b backend.Backend) {
	const writers, perWriter = 4, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				assert.NoError(t, b.Write(keys.Pack2(uint64(w), uint64(i)), []byte("v")))
			}
		}(w)
	}
	wg.Wait()
	assert.Len(t, scanKeys(t, b, nil, nil), writers*perWriter)
}

// testClearDuringWrites races Clear against writers appending ever larger
// keys. A write that returned before Clear started must be gone, and a write
// that started after Clear returned must survive.
func testClearDuringWrites(t *testing.T, b backend.Backend) {
	const (
		writers   = 4
		perWriter = 50
	)
	type outcome struct {
		key               keys.Key
		doneBeforeClear   bool
		startedAfterClear bool
	}

	var (
		clearStarted, clearDone atomic.Bool
		written                 atomic.Int32
		clearErr                error
		wg                      sync.WaitGroup
		results                 = make([][]outcome, writers)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for written.Load() < writers*perWriter/4 {
			runtime.Gosched()
		}
		clearStarted.Store(true)
		clearErr = b.Clear()
		clearDone.Store(true)
	}()

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				k := keys.Pack2(uint64(w), uint64(i))
				after := clearDone.Load()
				if err := b.Write(k, []byte{byte(i)}); err != nil {
					t.Errorf("write %s: %v", k, err)
					written.Add(1)
					continue
				}
				results[w] = append(results[w], outcome{
					key:               k,
					doneBeforeClear:   !clearStarted.Load(),
					startedAfterClear: after,
				})
				written.Add(1)
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, clearErr)

	present := make(map[string]bool)
	for _, k := range scanKeys(t, b, nil, nil) {
		present[string(k)] = true
	}
	for _, rs := range results {
		for _, r := range rs {
			if r.doneBeforeClear {
				assert.False(t, present[string(r.key)], "%s written before Clear survived", r.key)
			}
			if r.startedAfterClear {
				assert.True(t, present[string(r.key)], "%s written after Clear is missing", r.key)
			}
		}
	}
}
