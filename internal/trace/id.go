package trace

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedIdentifier is returned when a hex identifier is not exactly
// 16 hexadecimal characters.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// hexLen is the only accepted length of a hex identifier.
const hexLen = 16

// ID is a 64-bit trace or span identifier. The zero value is absent.
type ID struct {
	value int64
	valid bool
}

// FromBinary wraps a signed 64-bit integer.
func FromBinary(n int64) ID {
	return ID{value: n, valid: true}
}

// FromHex parses a 16 character hex identifier. An empty string yields
// the absent ID and no error.
func FromHex(s string) (ID, error) {
	if s == "" {
		return ID{}, nil
	}
	if len(s) != hexLen {
		return ID{}, fmt.Errorf("%w: %q has length %d, want %d", ErrMalformedIdentifier, s, len(s), hexLen)
	}
	u, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q is not hexadecimal", ErrMalformedIdentifier, s)
	}
	return FromBinary(int64(u)), nil
}

// MustFromHex is like FromHex but panics on malformed input.
func MustFromHex(s string) ID {
	id, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Hex returns the zero-padded lowercase hex form, or "" when absent.
func (id ID) Hex() string {
	if !id.valid {
		return ""
	}
	s := strconv.FormatUint(uint64(id.value), 16)
	if len(s) < hexLen {
		s = zeros[:hexLen-len(s)] + s
	}
	return s
}

const zeros = "0000000000000000"

// Binary returns the stored signed value.
func (id ID) Binary() int64 { return id.value }

// IsValid reports whether the ID is present.
func (id ID) IsValid() bool { return id.valid }

// Equal reports whether both IDs are present with the same value, or both absent.
func (id ID) Equal(other ID) bool {
	return id.valid == other.valid && id.value == other.value
}

// String implements fmt.Stringer.
func (id ID) String() string {
	if !id.valid {
		return "<none>"
	}
	return id.Hex()
}
