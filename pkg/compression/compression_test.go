package compression

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"users:1":"alice","users:2":"bob"}`, 200))

	for _, alg := range []Algorithm{None, Gzip, Zstd} {
		t.Run(string(alg), func(t *testing.T) {
			var packed bytes.Buffer
			n, err := Compress(alg, bytes.NewReader(payload), &packed)
			require.NoError(t, err)
			assert.Equal(t, int64(packed.Len()), n)
			if alg != None {
				assert.Less(t, packed.Len(), len(payload))
			}
			assert.Equal(t, alg, Detect(packed.Bytes()))

			var out bytes.Buffer
			_, err = Decompress(alg, bytes.NewReader(packed.Bytes()), &out)
			require.NoError(t, err)
			assert.Equal(t, payload, out.Bytes())

			rc, err := NewReader(bytes.NewReader(packed.Bytes()))
			require.NoError(t, err)
			defer rc.Close()
			out.Reset()
			_, err = out.ReadFrom(rc)
			require.NoError(t, err)
			assert.Equal(t, payload, out.Bytes())
		})
	}
}

func TestNewReaderShortInput(t *testing.T) {
	rc, err := NewReader(strings.NewReader("{}"))
	require.NoError(t, err)
	var out bytes.Buffer
	_, err = out.ReadFrom(rc)
	require.NoError(t, err)
	assert.Equal(t, "{}", out.String())
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{"": None, "none": None, "GZIP": Gzip, " zstd ": Zstd} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAlgorithm("lz4")
	assert.Error(t, err)

	_, err = Compress("lz4", strings.NewReader("x"), &bytes.Buffer{})
	assert.Error(t, err)
}
