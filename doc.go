// Package peripheral configures and advertises a Bluetooth Low-Energy
// peripheral on Linux.
//
// The package talks to the host's Bluetooth stack on two paths. The
// linux subpackage encodes BlueZ management-protocol commands (power,
// discoverability, advertising payloads) and correlates them with the
// adapter's responses over the management control socket. This package
// owns the server lifecycle around that: a run-state machine
// (Uninitialized -> Initializing -> Running -> Stopping -> Stopped)
// with a sticky health code, and a thread-safe update queue that lets
// any application goroutine report a changed characteristic or
// descriptor value. The server's single event loop drains the queue and
// forwards each entry to a SignalEmitter, typically the D-Bus
// properties-changed emitter in the bluez subpackage.
//
// The GATT object tree itself (services, characteristics, descriptors
// and their D-Bus exposure) is deliberately external: this package only
// plumbs data getters/setters through to it and signals which attribute
// values changed.
//
// A minimal server:
//
//	srv := peripheral.NewServer("clock",
//		peripheral.WithAdvertisingName("Wall Clock", "clock"),
//		peripheral.WithRawAdvertisingData(adv.Bytes(), nil))
//	if !srv.Start() {
//		// srv.Health() tells why
//	}
//	srv.NotifyUpdatedCharacteristic("/com/example/clock/service0/char0")
//	srv.ShutdownAndWait()
package peripheral
