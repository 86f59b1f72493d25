package peripheral

import (
	"time"

	"github.com/blekit/peripheral/linux"
)

// Option configures a Server at construction.
// See http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for more discussion.
type Option func(*Server)

// WithAdvertisingName overrides the name and short name the adapter
// advertises. Names beyond the management protocol's limits are
// truncated silently when encoded; see linux.MaxNameLength and
// linux.MaxShortNameLength.
func WithAdvertisingName(name, shortName string) Option {
	return func(s *Server) {
		s.advName = name
		s.advShortName = shortName
	}
}

// WithRawAdvertisingData supplies the raw advertising payload and
// optional scan-response payload, each at most
// linux.MaxAdvertisingDataLength bytes for legacy advertising. When
// set, the server installs them verbatim instead of enabling
// stack-composed advertising.
func WithRawAdvertisingData(advData, scanRsp []byte) Option {
	return func(s *Server) {
		s.advData = &linux.RawAdvertisingData{AdvData: advData, RspData: scanRsp}
	}
}

// WithDataGetter registers the delegate the GATT layer reads named
// application data through.
func WithDataGetter(g DataGetter) Option {
	return func(s *Server) { s.getter = g }
}

// WithDataSetter registers the delegate the GATT layer writes named
// application data through.
func WithDataSetter(st DataSetter) Option {
	return func(s *Server) { s.setter = st }
}

// WithControllerIndex targets a specific adapter. Defaults to 0, the
// first controller.
func WithControllerIndex(index uint16) Option {
	return func(s *Server) { s.controllerIndex = index }
}

// WithInitTimeout bounds how long Start waits for the server to reach
// StateRunning.
func WithInitTimeout(d time.Duration) Option {
	return func(s *Server) { s.initTimeout = d }
}

// WithSettleDelay overrides the pause between powering the adapter off
// and installing raw advertising data. The default,
// linux.DefaultSettleDelay, is an empirical firmware-quirk constant.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Server) { s.settleDelay = d }
}

// WithDiscoverable sets the discoverable mode and, for
// linux.DiscoverableLimited, the timeout in seconds.
func WithDiscoverable(mode uint8, timeoutSeconds uint16) Option {
	return func(s *Server) {
		s.discoverableMode = mode
		s.discoverableTimeout = timeoutSeconds
	}
}

// WithSecureConnections sets the secure-connections mode: 0 disabled,
// 1 enabled (the default), 2 secure-connections-only.
func WithSecureConnections(level uint8) Option {
	return func(s *Server) { s.secureLevel = level }
}

// WithTransport injects the management transport, replacing the control
// socket the server would otherwise open itself.
func WithTransport(t linux.Transport) Option {
	return func(s *Server) { s.transport = t }
}

// WithSignalEmitter injects the collaborator that publishes
// property-changed signals for queued updates. Without one, updates are
// drained and dropped with a debug log.
func WithSignalEmitter(e SignalEmitter) Option {
	return func(s *Server) { s.emitter = e }
}
