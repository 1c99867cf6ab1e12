package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"mixed", Pack4("user", uint64(7), int64(3), true), "user:7:3i:true"},
		{"negative", Pack2("t", int64(-12)), "t:-12"},
		{"escaped", Pack2(`a:b\c`, false), `a\:b\\c:false`},
		{"empty", Key{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Display(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestDisplayMalformedFallsBackToHex(t *testing.T) {
	k := Key{0x02, 0x01}
	_, err := Display(k)
	require.Error(t, err)
	assert.Equal(t, "0x0201", k.String())
}

func TestParseDisplayRoundTrip(t *testing.T) {
	keys := []Key{
		Pack4("user", uint64(7), int64(3), true),
		Pack3("t", int64(-12), false),
		Pack2(`a:b\c`, uint64(0)),
		Pack1(`trailing\`),
		Pack2("x", int64(0)),
	}
	for _, k := range keys {
		s, err := Display(k)
		require.NoError(t, err)
		assert.Equal(t, k, ParseDisplay(s), "display %q", s)
	}
}

func TestParseDisplayHeuristics(t *testing.T) {
	assert.Equal(t, Pack1(uint64(12)), ParseDisplay("12"))
	assert.Equal(t, Pack1(int64(12)), ParseDisplay("12i"))
	assert.Equal(t, Pack1(int64(-3)), ParseDisplay("-3"))
	assert.Equal(t, Pack1(true), ParseDisplay("true"))
	assert.Equal(t, Pack1("i"), ParseDisplay("i"))
	assert.Equal(t, Pack1("-"), ParseDisplay("-"))
	assert.Equal(t, Pack1("1.5"), ParseDisplay("1.5"))
	assert.Equal(t, Key{}, ParseDisplay(""))
	// out of range numbers stay strings
	assert.Equal(t, Pack1("99999999999999999999"), ParseDisplay("99999999999999999999"))
	// a lone backslash is kept as is
	assert.Equal(t, Pack1(`a\b`), ParseDisplay(`a\b`))
}

// Strings that look like other types do not survive the display form.
func TestParseDisplayIsLossyForNumericStrings(t *testing.T) {
	s, err := Display(Pack1("12"))
	require.NoError(t, err)
	assert.NotEqual(t, Pack1("12"), ParseDisplay(s))
}
