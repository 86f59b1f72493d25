package peripheral

// Helpers for composing the raw advertising and scan-response payloads
// handed to the server through WithRawAdvertisingData. An advertising
// payload is a run of length-prefixed fields capped at 31 bytes.

// MaxAdvertisingPacketLength is the maximum allowed advertising or
// scan-response payload length for legacy advertising.
const MaxAdvertisingPacketLength = 31

// advertising data field types
const (
	typeFlags            = 0x01 // Flags
	typeSomeUUID16       = 0x02 // Incomplete List of 16-bit Service Class UUIDs
	typeAllUUID16        = 0x03 // Complete List of 16-bit Service Class UUIDs
	typeSomeUUID128      = 0x06 // Incomplete List of 128-bit Service Class UUIDs
	typeAllUUID128       = 0x07 // Complete List of 128-bit Service Class UUIDs
	typeShortName        = 0x08 // Shortened Local Name
	typeCompleteName     = 0x09 // Complete Local Name
	typeTxPower          = 0x0A // Tx Power Level
	typeManufacturerData = 0xFF // Manufacturer Specific Data
)

// flag bits
const (
	FlagLimitedDiscoverable = 1 << iota // LE Limited Discoverable Mode
	FlagGeneralDiscoverable             // LE General Discoverable Mode
	FlagLEOnly                          // BR/EDR Not Supported
	FlagBothController                  // Simultaneous LE and BR/EDR (Controller)
	FlagBothHost                        // Simultaneous LE and BR/EDR (Host)
)

// An AdvPacket accumulates advertising fields up to the 31-byte cap.
// The zero value is an empty packet.
type AdvPacket struct {
	data []byte
}

// Bytes returns the accumulated payload.
func (a *AdvPacket) Bytes() []byte {
	b := make([]byte, len(a.data))
	copy(b, a.data)
	return b
}

// Len returns the accumulated payload length.
func (a *AdvPacket) Len() int { return len(a.data) }

// AppendField appends a length-prefixed field, truncating the content
// to whatever room remains.
func (a *AdvPacket) AppendField(typ byte, b []byte) *AdvPacket {
	if rem := MaxAdvertisingPacketLength - len(a.data) - 2; len(b) > rem {
		if rem <= 0 {
			return a
		}
		b = b[:rem]
	}
	a.data = append(a.data, byte(len(b)+1), typ)
	a.data = append(a.data, b...)
	return a
}

// AppendFlags appends a flags field.
func (a *AdvPacket) AppendFlags(f byte) *AdvPacket {
	return a.AppendField(typeFlags, []byte{f})
}

// AppendName appends the device name, as a complete-name field when it
// fits and a shortened-name field otherwise.
func (a *AdvPacket) AppendName(name string) *AdvPacket {
	typ := byte(typeCompleteName)
	if len(a.data)+2+len(name) > MaxAdvertisingPacketLength {
		typ = typeShortName
	}
	return a.AppendField(typ, []byte(name))
}

// AppendManufacturerData appends a manufacturer-data field with the
// company identifier. Unlike AppendField it refuses to truncate: the
// field is appended whole or not at all, and the return reports which.
func (a *AdvPacket) AppendManufacturerData(id uint16, b []byte) bool {
	if len(a.data)+4+len(b) > MaxAdvertisingPacketLength {
		return false
	}
	d := append([]byte{byte(id), byte(id >> 8)}, b...)
	a.AppendField(typeManufacturerData, d)
	return true
}

// AppendUUIDFit appends as many service UUIDs as fit whole, 16-bit
// UUIDs in one field and 128-bit UUIDs in another, and reports whether
// every UUID made it in. The fields are marked incomplete when any were
// left out.
func (a *AdvPacket) AppendUUIDFit(uu []UUID) bool {
	var u16s, u128s []byte
	fit := true
	for _, u := range uu {
		switch u.Len() {
		case 2:
			need := 2
			if len(u16s) == 0 {
				need += 2 // field header for the first 16-bit UUID
			}
			if a.room(len(u16s), len(u128s)) >= need {
				u16s = append(u16s, u.Reversed()...)
			} else {
				fit = false
			}
		case 16:
			need := 16
			if len(u128s) == 0 {
				need += 2
			}
			if a.room(len(u16s), len(u128s)) >= need {
				u128s = append(u128s, u.Reversed()...)
			} else {
				fit = false
			}
		}
	}
	typ16, typ128 := byte(typeAllUUID16), byte(typeAllUUID128)
	if !fit {
		typ16, typ128 = typeSomeUUID16, typeSomeUUID128
	}
	if len(u16s) > 0 {
		a.AppendField(typ16, u16s)
	}
	if len(u128s) > 0 {
		a.AppendField(typ128, u128s)
	}
	return fit
}

// room reports the bytes still available once the pending UUID fields
// (with their two-byte headers) are accounted for.
func (a *AdvPacket) room(pending16, pending128 int) int {
	used := len(a.data) + pending16 + pending128
	if pending16 > 0 {
		used += 2
	}
	if pending128 > 0 {
		used += 2
	}
	return MaxAdvertisingPacketLength - used
}
