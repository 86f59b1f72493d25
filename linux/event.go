package linux

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Management events share the packet framing of commands: a 6-byte
// header (event code, controller index, parameter size) followed by the
// event parameters.

type eventCode uint16

const (
	evtCommandComplete    = eventCode(0x0001)
	evtCommandStatus      = eventCode(0x0002)
	evtControllerError    = eventCode(0x0003)
	evtIndexAdded         = eventCode(0x0004)
	evtIndexRemoved       = eventCode(0x0005)
	evtNewSettings        = eventCode(0x0006)
	evtClassOfDevChanged  = eventCode(0x0007)
	evtLocalNameChanged   = eventCode(0x0008)
	evtAdvertisingAdded   = eventCode(0x0023)
	evtAdvertisingRemoved = eventCode(0x0024)
)

type eventHeader struct {
	event eventCode
	index uint16
	plen  uint16
}

func (h *eventHeader) unmarshal(b []byte) error {
	if len(b) < hdrLen {
		return errors.New("event packet too short")
	}
	buf := bytes.NewBuffer(b)
	if err := binary.Read(buf, binary.LittleEndian, &h.event); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &h.index); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &h.plen); err != nil {
		return err
	}
	if int(h.plen) > buf.Len() {
		return errors.New("event parameters truncated")
	}
	return nil
}

// commandCompleteEvent carries the adapter's response to a finished
// command: the opcode it answers, a status byte and any return
// parameters.
type commandCompleteEvent struct {
	opcode uint16
	status uint8
	params []byte
}

func (ep *commandCompleteEvent) unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)
	if err := binary.Read(buf, binary.LittleEndian, &ep.opcode); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &ep.status); err != nil {
		return err
	}
	ep.params = buf.Bytes()
	return nil
}

// commandStatusEvent reports that a command failed or is still in
// flight; no return parameters follow.
type commandStatusEvent struct {
	opcode uint16
	status uint8
}

func (ep *commandStatusEvent) unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)
	if err := binary.Read(buf, binary.LittleEndian, &ep.opcode); err != nil {
		return err
	}
	return binary.Read(buf, binary.LittleEndian, &ep.status)
}

const statusSuccess = 0x00

var statusName = map[uint8]string{
	0x00: "Success",
	0x01: "Unknown Command",
	0x02: "Not Connected",
	0x03: "Failed",
	0x04: "Connect Failed",
	0x05: "Authentication Failed",
	0x06: "Not Paired",
	0x07: "No Resources",
	0x08: "Timeout",
	0x09: "Already Connected",
	0x0A: "Busy",
	0x0B: "Rejected",
	0x0C: "Not Supported",
	0x0D: "Invalid Parameters",
	0x0E: "Disconnected",
	0x0F: "Not Powered",
	0x10: "Cancelled",
	0x11: "Invalid Index",
	0x12: "RFKilled",
	0x13: "Already Paired",
	0x14: "Permission Denied",
}

func statusText(s uint8) string {
	if n, ok := statusName[s]; ok {
		return n
	}
	return "Unknown Status"
}
