package peripheral

import (
	"bytes"
	"testing"
)

func TestUUID16(t *testing.T) {
	if want, got := (UUID{[]byte{0x00, 0x18}}), UUID16(0x1800); !got.Equal(want) {
		t.Errorf("UUID16: got %x, want %x", got, want)
	}
}

func TestParseUUID(t *testing.T) {
	cases := []struct {
		s       string
		wantLen int
		wantErr bool
	}{
		{s: "1800", wantLen: 2},
		{s: "ABABABABABABABABABABABABABABABAB", wantLen: 16},
		{s: "abababab-abab-abab-abab-abababababab", wantLen: 16},
		{s: "180", wantErr: true},    // odd hex length
		{s: "180018", wantErr: true}, // 24 bits
		{s: "18zz", wantErr: true},   // not hex
	}
	for _, tt := range cases {
		u, err := ParseUUID(tt.s)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseUUID(%q): expected error, got %s", tt.s, u)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseUUID(%q): %v", tt.s, err)
			continue
		}
		if u.Len() != tt.wantLen {
			t.Errorf("ParseUUID(%q): got %d bytes, want %d", tt.s, u.Len(), tt.wantLen)
		}
	}

	// dashes are cosmetic
	dashed := MustParseUUID("abababab-abab-abab-abab-abababababab")
	plain := MustParseUUID("abababababababababababababababab")
	if !dashed.Equal(plain) {
		t.Errorf("dashed and plain forms differ: %s vs %s", dashed, plain)
	}
}

func TestMustParseUUIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseUUID did not panic on a malformed UUID")
		}
	}()
	MustParseUUID("not-a-uuid")
}

func TestReverse(t *testing.T) {
	cases := []struct {
		fwd  []byte
		back []byte
	}{
		{fwd: []byte{0, 1}, back: []byte{1, 0}},
		{fwd: []byte{0, 1, 2}, back: []byte{2, 1, 0}},
		{fwd: []byte{0, 1, 2, 3}, back: []byte{3, 2, 1, 0}},
		{
			fwd:  []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			back: []byte{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		},
	}

	for _, tt := range cases {
		got := reverse(tt.fwd)
		if !bytes.Equal(got, tt.back) {
			t.Errorf("reverse(%x): got %x want %x", tt.fwd, got, tt.back)
		}

		u := UUID{tt.fwd}
		got = u.Reversed()
		if !bytes.Equal(got, tt.back) {
			t.Errorf("UUID(%x).Reversed(): got %x want %x", tt.fwd, got, tt.back)
		}
	}
}

func BenchmarkReverseBytes16(b *testing.B) {
	u := UUID{make([]byte, 2)}
	for i := 0; i < b.N; i++ {
		reverse(u.b)
	}
}

func BenchmarkReverseBytes128(b *testing.B) {
	u := UUID{make([]byte, 16)}
	for i := 0; i < b.N; i++ {
		reverse(u.b)
	}
}
