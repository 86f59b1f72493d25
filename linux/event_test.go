package linux

import "testing"

func TestEventHeaderUnmarshal(t *testing.T) {
	// command complete for Set Powered, status success
	b := []byte{0x01, 0x00, 0x00, 0x00, 0x03, 0x00, 0x05, 0x00, 0x00}

	var h eventHeader
	if err := h.unmarshal(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.event != evtCommandComplete || h.index != 0 || h.plen != 3 {
		t.Errorf("header: got %+v", h)
	}

	var ep commandCompleteEvent
	if err := ep.unmarshal(b[hdrLen:]); err != nil {
		t.Fatalf("unmarshal params: %v", err)
	}
	if ep.opcode != uint16(cmdSetPowered) || ep.status != statusSuccess {
		t.Errorf("command complete: got %+v", ep)
	}
	if len(ep.params) != 0 {
		t.Errorf("return parameters: got %x want none", ep.params)
	}
}

func TestEventHeaderErrors(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01, 0x00, 0x00},
		// plen claims more parameters than the packet carries
		{0x01, 0x00, 0x00, 0x00, 0x09, 0x00, 0x05, 0x00, 0x00},
	}
	for _, b := range cases {
		var h eventHeader
		if err := h.unmarshal(b); err == nil {
			t.Errorf("unmarshal(% X): expected error", b)
		}
	}
}

func TestCommandStatusUnmarshal(t *testing.T) {
	// command status for Add Advertising: busy
	params := []byte{0x3E, 0x00, 0x0A}

	var ep commandStatusEvent
	if err := ep.unmarshal(params); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ep.opcode != uint16(cmdAddAdvertising) || ep.status != 0x0A {
		t.Errorf("command status: got %+v", ep)
	}
	if got := statusText(ep.status); got != "Busy" {
		t.Errorf("statusText(0x0A): got %q", got)
	}
	if got := statusText(0xEE); got != "Unknown Status" {
		t.Errorf("statusText(0xEE): got %q", got)
	}
}
