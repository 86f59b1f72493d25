// Package linux speaks the BlueZ management protocol to configure a
// local Bluetooth adapter for BLE peripheral duty: power, radio modes,
// local name and raw advertising payloads.
package linux

import (
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// SetLogger replaces the package logger. Configuration failures are
// reported at warn level.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// DefaultSettleDelay is the pause between powering the adapter off and
// issuing Add Advertising. The adapter firmware rejects or ignores the
// command while certain radio states are mid-transition; 200 ms is an
// empirically derived value, adjustable through Mgmt.SettleDelay.
const DefaultSettleDelay = 200 * time.Millisecond

// RawAdvertisingData is a caller-supplied advertising payload and
// optional scan-response payload. Each part is limited to
// MaxAdvertisingDataLength bytes by the legacy advertising protocol;
// the encoder trusts the slice lengths and never reads beyond them.
type RawAdvertisingData struct {
	AdvData []byte
	RspData []byte
}

// Mgmt is a stateless facade over the management Transport: every
// setter encodes exactly one command, submits it and reports success.
// It is not safe for concurrent use against the same controller;
// callers serialize configuration per adapter, which normally falls out
// of a single-threaded startup phase.
type Mgmt struct {
	t     Transport
	index uint16

	// SettleDelay is the pause SetRawAdvertisingData inserts after
	// powering the adapter off.
	SettleDelay time.Duration
}

// NewMgmt synchronizes the transport with the adapter at the given
// controller index and returns the facade. The handshake runs exactly
// once, here; it is not safe to repeat implicitly.
func NewMgmt(t Transport, controllerIndex uint16) (*Mgmt, error) {
	if err := t.Sync(controllerIndex); err != nil {
		return nil, err
	}
	return &Mgmt{t: t, index: controllerIndex, SettleDelay: DefaultSettleDelay}, nil
}

// ControllerIndex returns the zero-based adapter index the facade
// targets.
func (m *Mgmt) ControllerIndex() uint16 { return m.index }

func (m *Mgmt) submit(what string, cp cmdParam) bool {
	if err := m.t.SendCommand(marshalCmd(m.index, cp)); err != nil {
		log.Warnf("failed to set %s: %v", what, err)
		return false
	}
	return true
}

func (m *Mgmt) setState(what string, c cmdCode, state uint8) bool {
	return m.submit(what, setState{c: c, state: state})
}

// SetName sets the adapter name and short name. Both may be truncated
// before encoding; see MaxNameLength and MaxShortNameLength, and
// TruncateName / TruncateShortName for callers that want to validate
// lengths up front.
func (m *Mgmt) SetName(name, shortName string) bool {
	return m.submit("local name", setLocalName{name: name, shortName: shortName})
}

// SetDiscoverable sets the discoverable mode (DiscoverableOff,
// DiscoverableGeneral or DiscoverableLimited). The timeout in seconds
// is required for, and only meaningful in, limited mode.
func (m *Mgmt) SetDiscoverable(mode uint8, timeout uint16) bool {
	return m.submit("discoverable", setDiscoverable{mode: mode, timeout: timeout})
}

// SetPowered powers the adapter on or off.
func (m *Mgmt) SetPowered(on bool) bool {
	return m.setState("powered", cmdSetPowered, boolByte(on))
}

// SetBredr enables or disables classic Bluetooth (BR/EDR).
func (m *Mgmt) SetBredr(on bool) bool {
	return m.setState("BR/EDR", cmdSetBREDR, boolByte(on))
}

// SetSecureConnections sets the secure connections mode: 0 disabled,
// 1 enabled, 2 secure-connections-only.
func (m *Mgmt) SetSecureConnections(level uint8) bool {
	return m.setState("secure connections", cmdSetSecureConnections, level)
}

// SetBondable enables or disables bonding.
func (m *Mgmt) SetBondable(on bool) bool {
	return m.setState("bondable", cmdSetBondable, boolByte(on))
}

// SetConnectable enables or disables connections.
func (m *Mgmt) SetConnectable(on bool) bool {
	return m.setState("connectable", cmdSetConnectable, boolByte(on))
}

// SetLE enables or disables the low-energy radio.
func (m *Mgmt) SetLE(on bool) bool {
	return m.setState("low energy", cmdSetLowEnergy, boolByte(on))
}

// SetAdvertising sets the advertising mode: 0 disabled, 1 enabled,
// 2 enabled in connectable mode.
func (m *Mgmt) SetAdvertising(state uint8) bool {
	return m.setState("advertising", cmdSetAdvertising, state)
}

// SetRawAdvertisingData installs caller-supplied advertising bytes as
// advertising instance 1. The adapter is powered off first and given
// SettleDelay to settle; the Add Advertising command is unreliable
// while the radio is mid-transition. Callers normally power the adapter
// back on afterwards.
func (m *Mgmt) SetRawAdvertisingData(adv RawAdvertisingData) bool {
	if len(adv.AdvData) > 255 || len(adv.RspData) > 255 {
		log.Warnf("advertising data rejected: %d+%d bytes exceed the one-byte length fields",
			len(adv.AdvData), len(adv.RspData))
		return false
	}
	m.SetPowered(false)
	time.Sleep(m.SettleDelay)
	return m.submit("advertising data", addAdvertising{
		instance: 1,
		advData:  adv.AdvData,
		rspData:  adv.RspData,
	})
}

func boolByte(on bool) uint8 {
	if on {
		return 1
	}
	return 0
}
