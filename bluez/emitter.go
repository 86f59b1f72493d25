// Package bluez publishes GATT property-change signals on the system
// D-Bus, where BlueZ picks them up and forwards value notifications to
// subscribed centrals.
package bluez

import (
	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

const (
	propertiesInterface     = "org.freedesktop.DBus.Properties"
	propertiesChangedSignal = propertiesInterface + ".PropertiesChanged"
)

// Emitter emits PropertiesChanged signals over a system-bus
// connection. It implements peripheral.SignalEmitter.
type Emitter struct {
	conn *dbus.Conn
}

// NewEmitter connects to the system bus.
func NewEmitter() (*Emitter, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, errors.Wrap(err, "connect to system bus")
	}
	return &Emitter{conn: conn}, nil
}

// NewEmitterConn wraps an existing bus connection. The caller keeps
// ownership of the connection's lifetime.
func NewEmitterConn(conn *dbus.Conn) *Emitter {
	return &Emitter{conn: conn}
}

func (e *Emitter) Close() error {
	return e.conn.Close()
}

// EmitPropertiesChanged signals that the Value property of the GATT
// attribute at objectPath changed. The value itself is not carried;
// it is listed as invalidated and interested parties re-read it through
// the attribute's interface.
func (e *Emitter) EmitPropertiesChanged(objectPath, interfaceName string) error {
	err := e.conn.Emit(dbus.ObjectPath(objectPath), propertiesChangedSignal,
		interfaceName, map[string]dbus.Variant{}, []string{"Value"})
	return errors.Wrapf(err, "emit on %s", objectPath)
}
