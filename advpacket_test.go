package peripheral

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestAppendField(t *testing.T) {
	cases := []struct {
		curr      []byte
		typ       byte
		field     []byte
		wantBytes []byte
	}{
		{
			curr:      []byte{},
			typ:       typeTxPower,
			field:     []byte{0x00},
			wantBytes: []byte{0x02, typeTxPower, 0x00},
		},
		{
			// content truncated to the room left
			curr:      []byte(strings.Repeat("1", 27)),
			typ:       typeCompleteName,
			field:     []byte("ABCDE"),
			wantBytes: append([]byte(strings.Repeat("1", 27)), 0x03, typeCompleteName, 'A', 'B'),
		},
		{
			// no room at all, nothing appended
			curr:      []byte(strings.Repeat("1", 30)),
			typ:       typeCompleteName,
			field:     []byte("ABCDE"),
			wantBytes: []byte(strings.Repeat("1", 30)),
		},
	}
	for _, tt := range cases {
		a := (&AdvPacket{tt.curr}).AppendField(tt.typ, tt.field)
		if !bytes.Equal(a.Bytes(), tt.wantBytes) {
			t.Errorf("%q a.AppendField(%#x, %q) got %x want %x", tt.curr, tt.typ, tt.field, a.Bytes(), tt.wantBytes)
		}
	}
}

func TestAppendFlags(t *testing.T) {
	a := &AdvPacket{}
	a.AppendFlags(FlagGeneralDiscoverable | FlagLEOnly)
	want := []byte{0x02, typeFlags, 0x06}
	if !bytes.Equal(a.Bytes(), want) {
		t.Errorf("AppendFlags: got %x want %x", a.Bytes(), want)
	}
}

func TestAppendName(t *testing.T) {
	cases := []struct {
		curr      []byte
		name      string
		wantBytes []byte
		wantLen   int
	}{
		{
			curr:      []byte{},
			name:      "ABCDE",
			wantBytes: []byte{0x06, typeCompleteName, 'A', 'B', 'C', 'D', 'E'},
			wantLen:   7,
		},
		{
			curr:      []byte("111111111122222222223333"),
			name:      "ABCDE",
			wantBytes: append([]byte("111111111122222222223333"), []byte{0x06, typeCompleteName, 'A', 'B', 'C', 'D', 'E'}...),
			wantLen:   31,
		},
		{
			curr:      []byte("1111111111222222222233333"),
			name:      "ABCDE",
			wantBytes: append([]byte("1111111111222222222233333"), []byte{0x05, typeShortName, 'A', 'B', 'C', 'D'}...),
			wantLen:   31,
		},
	}
	for _, tt := range cases {
		a := (&AdvPacket{tt.curr}).AppendName(tt.name)
		if !bytes.Equal(a.Bytes(), tt.wantBytes) {
			t.Errorf("%q a.AppendName(%q) got %x want %x", tt.curr, tt.name, a.Bytes(), tt.wantBytes)
		}
		if a.Len() != tt.wantLen {
			t.Errorf("%q a.AppendName(%q) got %d want %d", tt.curr, tt.name, a.Len(), tt.wantLen)
		}
	}
}

func TestAppendManufacturerData(t *testing.T) {
	a := &AdvPacket{}
	if !a.AppendManufacturerData(0x004C, []byte{0xDE, 0xAD}) {
		t.Fatal("AppendManufacturerData: whole field fits, got false")
	}
	want := []byte{0x05, typeManufacturerData, 0x4C, 0x00, 0xDE, 0xAD}
	if !bytes.Equal(a.Bytes(), want) {
		t.Errorf("AppendManufacturerData: got %x want %x", a.Bytes(), want)
	}

	// whole or nothing: a field that would spill is refused untouched
	b := &AdvPacket{data: []byte(strings.Repeat("1", 26))}
	if b.AppendManufacturerData(0x004C, []byte{0xDE, 0xAD}) {
		t.Error("AppendManufacturerData: got true for a field that does not fit")
	}
	if b.Len() != 26 {
		t.Errorf("AppendManufacturerData: refused field still grew the packet to %d", b.Len())
	}
}

func TestAppendUUIDFit(t *testing.T) {
	cases := []struct {
		uu      []UUID
		want    string
		wantFit bool
	}{
		{
			uu:      []UUID{UUID16(0xFAFE)},
			want:    "0201060303fefa",
			wantFit: true,
		},
		{
			uu:      []UUID{UUID16(0xFAFE), UUID16(0xFAF9)},
			want:    "0201060503fefaf9fa",
			wantFit: true,
		},
		{
			uu:      []UUID{MustParseUUID("ABABABABABABABABABABABABABABABAB")},
			want:    "0201061107abababababababababababababababab",
			wantFit: true,
		},
		{
			// only one 128-bit UUID fits next to the flags; the field is
			// marked incomplete
			uu: []UUID{
				MustParseUUID("ABABABABABABABABABABABABABABABAB"),
				MustParseUUID("CDCDCDCDCDCDCDCDCDCDCDCDCDCDCDCD"),
			},
			want:    "0201061106abababababababababababababababab",
			wantFit: false,
		},
		{
			// 16-bit and 128-bit UUIDs land in separate fields
			uu: []UUID{
				UUID16(0x1800),
				MustParseUUID("CDCDCDCDCDCDCDCDCDCDCDCDCDCDCDCD"),
			},
			want:    "020106030300181107cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd",
			wantFit: true,
		},
		{
			// 13 of 14 16-bit UUIDs fit after the flags
			uu: []UUID{
				UUID16(0xaaaa), UUID16(0xbbbb), UUID16(0xcccc), UUID16(0xdddd),
				UUID16(0xeeee), UUID16(0xffff), UUID16(0xaaaa), UUID16(0xbbbb),
				UUID16(0xcccc), UUID16(0xdddd), UUID16(0xeeee), UUID16(0xffff),
				UUID16(0xaaaa), UUID16(0xbbbb),
			},
			want:    "0201061b02aaaabbbbccccddddeeeeffffaaaabbbbccccddddeeeeffffaaaa",
			wantFit: false,
		},
	}

	for _, tt := range cases {
		a := &AdvPacket{}
		a.AppendFlags(FlagGeneralDiscoverable | FlagLEOnly)
		fit := a.AppendUUIDFit(tt.uu)
		if got := fmt.Sprintf("%x", a.Bytes()); got != tt.want {
			t.Errorf("AppendUUIDFit(%x) packet: got %q want %q", tt.uu, got, tt.want)
		}
		if fit != tt.wantFit {
			t.Errorf("AppendUUIDFit(%x) fit: got %t want %t", tt.uu, fit, tt.wantFit)
		}
		if a.Len() > MaxAdvertisingPacketLength {
			t.Errorf("AppendUUIDFit(%x) overflowed the packet: %d bytes", tt.uu, a.Len())
		}
	}
}
