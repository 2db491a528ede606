package trace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	values := []int64{0, 1, 42, -1, -42, math.MaxInt64, math.MinInt64, 0x0123456789abcdef}

	for _, n := range values {
		id := FromBinary(n)
		hex := id.Hex()
		assert.Len(t, hex, 16)

		parsed, err := FromHex(hex)
		require.NoError(t, err)
		assert.Equal(t, n, parsed.Binary(), "round trip of %d via %s", n, hex)
	}
}

func TestHexFormat(t *testing.T) {
	tests := []struct {
		value int64
		want  string
	}{
		{42, "000000000000002a"},
		{-42, "ffffffffffffffd6"},
		{-1, "ffffffffffffffff"},
		{math.MinInt64, "8000000000000000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromBinary(tt.value).Hex())
	}
}

func TestFromHexAbsent(t *testing.T) {
	id, err := FromHex("")
	require.NoError(t, err)
	assert.False(t, id.IsValid())
	assert.Equal(t, "", id.Hex())
	assert.Equal(t, "<none>", id.String())
}

func TestFromHexMalformed(t *testing.T) {
	inputs := []string{
		"xyz",
		"2a",
		"000000000000002",
		"0000000000000002a",
		"00000000000000zz",
		"+00000000000002a",
		"0x0000000000002a",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := FromHex(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedIdentifier)
		})
	}
}

func TestFromHexUppercase(t *testing.T) {
	id, err := FromHex("000000000000002A")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.Binary())
	assert.Equal(t, "000000000000002a", id.Hex())
}

func TestEqual(t *testing.T) {
	assert.True(t, FromBinary(7).Equal(FromBinary(7)))
	assert.False(t, FromBinary(7).Equal(FromBinary(8)))
	assert.True(t, ID{}.Equal(ID{}))
	assert.False(t, FromBinary(0).Equal(ID{}), "zero value is present, not absent")
}

func TestMustFromHexPanics(t *testing.T) {
	assert.Panics(t, func() { MustFromHex("nope") })
	assert.Equal(t, int64(42), MustFromHex("000000000000002a").Binary())
}

func BenchmarkHex(b *testing.B) {
	id := FromBinary(-42)
	for i := 0; i < b.N; i++ {
		_ = id.Hex()
	}
}

func BenchmarkFromHex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = FromHex("ffffffffffffffd6")
	}
}
