package peripheral

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/blekit/peripheral/linux"
)

// D-Bus interface names signalled for the two kinds of GATT attributes.
const (
	CharacteristicInterface = "org.bluez.GattCharacteristic1"
	DescriptorInterface     = "org.bluez.GattDescriptor1"
)

// DefaultInitTimeout bounds how long Start waits for the server to
// reach StateRunning.
const DefaultInitTimeout = 30 * time.Second

// SignalEmitter publishes a property-changed signal for the attribute
// at objectPath on the given D-Bus interface. The bluez subpackage
// provides the system-bus implementation.
type SignalEmitter interface {
	EmitPropertiesChanged(objectPath, interfaceName string) error
}

// Server owns the peripheral lifecycle: it configures the adapter
// through the management protocol, runs the single event loop that
// drains the update queue, and tracks run state and health. Servers are
// single-shot; once stopped they cannot be restarted.
type Server struct {
	serviceName  string
	advName      string
	advShortName string
	advData      *linux.RawAdvertisingData

	getter DataGetter
	setter DataSetter

	emitter   SignalEmitter
	transport linux.Transport

	controllerIndex     uint16
	initTimeout         time.Duration
	settleDelay         time.Duration
	discoverableMode    uint8
	discoverableTimeout uint16
	secureLevel         uint8

	queue *UpdateQueue

	mu     sync.Mutex
	state  RunState
	health Health

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// NewServer creates a server for the named service. The advertising
// name and short name default to the service name; everything else is
// configured through options.
func NewServer(serviceName string, opts ...Option) *Server {
	s := &Server{
		serviceName:      serviceName,
		advName:          serviceName,
		advShortName:     linux.TruncateShortName(serviceName),
		initTimeout:      DefaultInitTimeout,
		settleDelay:      linux.DefaultSettleDelay,
		discoverableMode: linux.DiscoverableGeneral,
		secureLevel:      1,
		queue:            NewUpdateQueue(),
		quit:             make(chan struct{}),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServiceName returns the name the server was created with.
func (s *Server) ServiceName() string { return s.serviceName }

// Queue exposes the update queue for introspection (size, clear). Use
// the Notify and PushUpdate methods to add entries.
func (s *Server) Queue() *UpdateQueue { return s.queue }

// RunState returns the server's current lifecycle state.
func (s *Server) RunState() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Health returns the server's health. It only leaves HealthOk on an
// unrecoverable failure and is sticky from then on.
func (s *Server) Health() Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

// IsRunning reports whether the server is in StateRunning.
func (s *Server) IsRunning() bool { return s.RunState() == StateRunning }

// advance moves the state forward to `to` if the server is exactly in
// `from`. All transitions funnel through here and setState, so the
// lifecycle order is enforced by construction.
func (s *Server) advance(from, to RunState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

// setState moves the state forward to `to`; backward moves are ignored.
func (s *Server) setState(to RunState) {
	s.mu.Lock()
	if to > s.state {
		s.state = to
	}
	s.mu.Unlock()
}

// fail records the failure in the health code: FailedInit before
// Running, FailedRun after. The first failure wins.
func (s *Server) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.health != HealthOk {
		return
	}
	if s.state < StateRunning {
		s.health = HealthFailedInit
	} else {
		s.health = HealthFailedRun
	}
}

// Start configures the adapter and launches the event loop. It blocks
// until the server reaches StateRunning or fails, bounded by the init
// timeout, and returns whether the server is running. On failure the
// health code is set and the server proceeds to StateStopped on its
// own; it never panics or exits the process.
func (s *Server) Start() bool {
	if !s.advance(StateUninitialized, StateInitializing) {
		logWarnf("start ignored: server is %s", s.RunState())
		return false
	}
	ready := make(chan bool, 1)
	go s.run(ready)

	select {
	case ok := <-ready:
		return ok
	case <-time.After(s.initTimeout):
		logErrorf("server failed to initialize within %s", s.initTimeout)
		s.fail()
		s.TriggerShutdown()
		return false
	}
}

// TriggerShutdown asks the event loop to stop. Safe to call from any
// goroutine, any number of times.
func (s *Server) TriggerShutdown() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Wait blocks until the server reaches StateStopped and reports whether
// it got there healthy.
func (s *Server) Wait() bool {
	<-s.done
	return s.Health() == HealthOk
}

// ShutdownAndWait combines TriggerShutdown and Wait.
func (s *Server) ShutdownAndWait() bool {
	s.TriggerShutdown()
	return s.Wait()
}

// PushUpdate queues a property-changed notification for the attribute
// at objectPath on interfaceName. It returns false when either string
// is empty.
func (s *Server) PushUpdate(objectPath, interfaceName string) bool {
	if objectPath == "" || interfaceName == "" {
		return false
	}
	s.queue.PushFront(objectPath, interfaceName)
	return true
}

// NotifyUpdatedCharacteristic queues a change notification for the
// characteristic at objectPath.
func (s *Server) NotifyUpdatedCharacteristic(objectPath string) bool {
	return s.PushUpdate(objectPath, CharacteristicInterface)
}

// NotifyUpdatedDescriptor queues a change notification for the
// descriptor at objectPath.
func (s *Server) NotifyUpdatedDescriptor(objectPath string) bool {
	return s.PushUpdate(objectPath, DescriptorInterface)
}

// run is the server's only event-processing goroutine. It owns the
// transport and is the queue's single consumer.
func (s *Server) run(ready chan<- bool) {
	defer close(s.done)
	defer s.setState(StateStopped)

	if err := s.configureAdapter(); err != nil {
		logErrorf("adapter configuration failed: %v", err)
		s.fail()
		s.setState(StateStopping)
		ready <- false
		return
	}

	s.setState(StateRunning)
	ready <- true
	logStatusf("server %q running on controller %d", s.serviceName, s.controllerIndex)

	for {
		select {
		case <-s.quit:
			s.setState(StateStopping)
			s.drainQueue()
			logStatusf("server %q stopped", s.serviceName)
			return
		case <-s.queue.Wake():
			s.drainQueue()
		}
	}
}

func (s *Server) drainQueue() {
	for {
		u, ok := s.queue.Pop(false)
		if !ok {
			return
		}
		if s.emitter == nil {
			logDebugf("dropped update for %s: no signal emitter", u.ObjectPath)
			continue
		}
		if err := s.emitter.EmitPropertiesChanged(u.ObjectPath, u.InterfaceName); err != nil {
			logWarnf("signal %s on %s: %v", u.InterfaceName, u.ObjectPath, err)
		}
	}
}

// configureAdapter brings the adapter into peripheral shape: powered,
// LE-only, bondable and connectable, named, and advertising. The order
// follows the management protocol's expectations; each step is one
// command and the first failure aborts.
func (s *Server) configureAdapter() error {
	t := s.transport
	if t == nil {
		var err error
		t, err = linux.Dial()
		if err != nil {
			return err
		}
		s.transport = t
	}

	m, err := linux.NewMgmt(t, s.controllerIndex)
	if err != nil {
		return errors.Wrap(err, "adapter handshake")
	}
	m.SettleDelay = s.settleDelay

	steps := []struct {
		what string
		ok   func() bool
	}{
		{"powered", func() bool { return m.SetPowered(true) }},
		{"BR/EDR", func() bool { return m.SetBredr(false) }},
		{"secure connections", func() bool { return m.SetSecureConnections(s.secureLevel) }},
		{"bondable", func() bool { return m.SetBondable(true) }},
		{"connectable", func() bool { return m.SetConnectable(true) }},
		{"low energy", func() bool { return m.SetLE(true) }},
		{"local name", func() bool { return m.SetName(s.advName, s.advShortName) }},
	}
	for _, st := range steps {
		if !st.ok() {
			return errors.Errorf("set %s", st.what)
		}
	}

	if s.advData != nil {
		// SetRawAdvertisingData powers the adapter off to settle the
		// radio; bring it back up afterwards.
		if !m.SetRawAdvertisingData(*s.advData) {
			return errors.New("set advertising data")
		}
		if !m.SetPowered(true) {
			return errors.New("set powered after advertising data")
		}
	} else if !m.SetAdvertising(1) {
		return errors.New("set advertising")
	}

	if !m.SetDiscoverable(s.discoverableMode, s.discoverableTimeout) {
		return errors.New("set discoverable")
	}
	return nil
}
