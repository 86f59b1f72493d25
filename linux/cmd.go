package linux

import "encoding/binary"

// This file defines the subset of the BlueZ management protocol used to
// configure an adapter for peripheral duty. Every command is a 6-byte
// header (code, controller index, payload size; all uint16
// little-endian) followed by a command-specific payload with no
// implicit padding.

type cmdCode uint16

const (
	cmdReadVersion          = cmdCode(0x0001)
	cmdReadIndexList        = cmdCode(0x0003)
	cmdReadControllerInfo   = cmdCode(0x0004)
	cmdSetPowered           = cmdCode(0x0005)
	cmdSetDiscoverable      = cmdCode(0x0006)
	cmdSetConnectable       = cmdCode(0x0007)
	cmdSetBondable          = cmdCode(0x0009)
	cmdSetLowEnergy         = cmdCode(0x000D)
	cmdSetLocalName         = cmdCode(0x000F)
	cmdSetAdvertising       = cmdCode(0x0029)
	cmdSetBREDR             = cmdCode(0x002A)
	cmdSetSecureConnections = cmdCode(0x002D)
	cmdAddAdvertising       = cmdCode(0x003E)
)

func (c cmdCode) String() string {
	if n, ok := cmdName[c]; ok {
		return n
	}
	return "Unknown Command"
}

var cmdName = map[cmdCode]string{
	cmdReadVersion:          "Read Management Version Information",
	cmdReadIndexList:        "Read Controller Index List",
	cmdReadControllerInfo:   "Read Controller Information",
	cmdSetPowered:           "Set Powered",
	cmdSetDiscoverable:      "Set Discoverable",
	cmdSetConnectable:       "Set Connectable",
	cmdSetBondable:          "Set Bondable",
	cmdSetLowEnergy:         "Set Low Energy",
	cmdSetLocalName:         "Set Local Name",
	cmdSetAdvertising:       "Set Advertising",
	cmdSetBREDR:             "Set BR/EDR",
	cmdSetSecureConnections: "Set Secure Connections",
	cmdAddAdvertising:       "Add Advertising",
}

const (
	// ControllerNone addresses commands that are not directed at any
	// particular adapter, such as Read Management Version Information.
	ControllerNone uint16 = 0xFFFF

	// hdrLen is the fixed management packet header: code, controller
	// index and payload size, each uint16 little-endian.
	hdrLen = 6
)

// Name field sizes of the Set Local Name command. Each field holds a
// NUL-terminated string, so the longest usable name is one byte shorter
// than the field.
const (
	nameFieldLen      = 249
	shortNameFieldLen = 11

	// MaxNameLength is the longest adapter name Set Local Name can carry.
	MaxNameLength = nameFieldLen - 1

	// MaxShortNameLength is the longest short name Set Local Name can carry.
	MaxShortNameLength = shortNameFieldLen - 1
)

// MaxAdvertisingDataLength is the largest legacy advertising-data or
// scan-response payload.
const MaxAdvertisingDataLength = 31

// Discoverable modes accepted by Set Discoverable.
const (
	DiscoverableOff     uint8 = 0x00
	DiscoverableGeneral uint8 = 0x01
	DiscoverableLimited uint8 = 0x02
)

type cmdParam interface {
	code() cmdCode
	plen() int
	marshal(b []byte)
}

// marshalCmd renders a command as the exact byte sequence written to the
// management socket. The payload buffer handed to marshal is zeroed and
// sized to plen, so commands with fixed-width string fields only need to
// copy their content.
func marshalCmd(index uint16, cp cmdParam) []byte {
	b := make([]byte, hdrLen+cp.plen())
	o.PutUint16(b[0:], uint16(cp.code()))
	o.PutUint16(b[2:], index)
	o.PutUint16(b[4:], uint16(cp.plen()))
	cp.marshal(b[hdrLen:])
	return b
}

type order struct{ binary.ByteOrder }

var o = order{binary.LittleEndian}

func (o order) PutUint8(b []byte, v uint8) { b[0] = v }

// TruncateName shortens name to the longest length Set Local Name can
// carry. Names already within the limit are returned unchanged.
func TruncateName(name string) string {
	if len(name) <= MaxNameLength {
		return name
	}
	return name[:MaxNameLength]
}

// TruncateShortName shortens name to the longest short-name length Set
// Local Name can carry.
func TruncateShortName(name string) string {
	if len(name) <= MaxShortNameLength {
		return name
	}
	return name[:MaxShortNameLength]
}

// Read Management Version Information (0x0001)
type readVersion struct{}

func (readVersion) code() cmdCode  { return cmdReadVersion }
func (readVersion) plen() int      { return 0 }
func (readVersion) marshal([]byte) {}

// Read Controller Index List (0x0003)
type readIndexList struct{}

func (readIndexList) code() cmdCode  { return cmdReadIndexList }
func (readIndexList) plen() int      { return 0 }
func (readIndexList) marshal([]byte) {}

// Read Controller Information (0x0004)
type readControllerInfo struct{}

func (readControllerInfo) code() cmdCode  { return cmdReadControllerInfo }
func (readControllerInfo) plen() int      { return 0 }
func (readControllerInfo) marshal([]byte) {}

// Set Local Name (0x000F)
//
// Oversized names are truncated silently; callers that want to reject
// long names must check against MaxNameLength / MaxShortNameLength
// before encoding.
type setLocalName struct {
	name      string
	shortName string
}

func (setLocalName) code() cmdCode { return cmdSetLocalName }
func (setLocalName) plen() int     { return nameFieldLen + shortNameFieldLen }
func (c setLocalName) marshal(b []byte) {
	copy(b[:nameFieldLen-1], TruncateName(c.name))
	copy(b[nameFieldLen:nameFieldLen+shortNameFieldLen-1], TruncateShortName(c.shortName))
}

// Set Discoverable (0x0006). The timeout, in seconds, is only meaningful
// for DiscoverableLimited.
type setDiscoverable struct {
	mode    uint8
	timeout uint16
}

func (setDiscoverable) code() cmdCode { return cmdSetDiscoverable }
func (setDiscoverable) plen() int     { return 3 }
func (c setDiscoverable) marshal(b []byte) {
	b[0] = c.mode
	o.PutUint16(b[1:], c.timeout)
}

// setState covers every single-byte setting command: powered, BR/EDR,
// bondable, connectable, low energy, secure connections (0/1/2) and
// advertising (0/1/2). They share one payload shape and differ only in
// command code and the meaning of the byte.
type setState struct {
	c     cmdCode
	state uint8
}

func (c setState) code() cmdCode    { return c.c }
func (setState) plen() int          { return 1 }
func (c setState) marshal(b []byte) { b[0] = c.state }

// Add Advertising (0x003E)
//
// Variable-length command: a 9-byte fixed part, the two data lengths,
// then the advertising data immediately followed by the scan-response
// data. The buffer produced by marshalCmd is sized exactly for the
// declared lengths and never resized.
type addAdvertising struct {
	instance uint8
	flags    uint32
	duration uint16
	timeout  uint16
	advData  []byte
	rspData  []byte
}

func (addAdvertising) code() cmdCode { return cmdAddAdvertising }
func (c addAdvertising) plen() int   { return 11 + len(c.advData) + len(c.rspData) }
func (c addAdvertising) marshal(b []byte) {
	b[0] = c.instance
	o.PutUint32(b[1:], c.flags)
	o.PutUint16(b[5:], c.duration)
	o.PutUint16(b[7:], c.timeout)
	b[9] = uint8(len(c.advData))
	b[10] = uint8(len(c.rspData))
	copy(b[11:], c.advData)
	copy(b[11+len(c.advData):], c.rspData)
}
