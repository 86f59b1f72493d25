package peripheral

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// A UUID is a BLE UUID kept in its big-endian textual byte order, 2 or
// 16 bytes long. Advertising payloads and attribute tables want the
// reversed (little-endian) order; see UUID.Reversed.
type UUID struct {
	b []byte
}

// UUID16 converts a 16-bit Bluetooth SIG-assigned number to a UUID.
func UUID16(i uint16) UUID {
	return UUID{b: []byte{byte(i >> 8), byte(i)}}
}

// ParseUUID parses a standard hex-encoded UUID, with or without dashes,
// into its 16-bit or 128-bit form.
func ParseUUID(s string) (UUID, error) {
	s = strings.ReplaceAll(s, "-", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return UUID{}, err
	}
	if len(b) != 2 && len(b) != 16 {
		return UUID{}, fmt.Errorf("UUID %q is not 16 or 128 bits", s)
	}
	return UUID{b: b}, nil
}

// MustParseUUID parses a UUID known to be well formed, panicking
// otherwise. Intended for package-level constants.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Len returns the UUID length in bytes: 2 or 16.
func (u UUID) Len() int { return len(u.b) }

// Equal reports whether two UUIDs are the same.
func (u UUID) Equal(v UUID) bool { return string(u.b) == string(v.b) }

func (u UUID) String() string { return fmt.Sprintf("%x", u.b) }

// Reversed returns the UUID bytes in the little-endian order used on
// the wire.
func (u UUID) Reversed() []byte { return reverse(u.b) }

// reverse returns a reversed copy of u.
func reverse(u []byte) []byte {
	l := len(u)
	b := make([]byte, l)
	for i := 0; i < l/2+1; i++ {
		b[i], b[l-i-1] = u[l-i-1], u[i]
	}
	return b
}
