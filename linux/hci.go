package linux

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Transport is the request/response channel between the Mgmt facade and
// the adapter. Sync must be called once for a controller index before
// any command addressed to it is valid; SendCommand blocks until the
// adapter answers or the transport's response timeout expires.
type Transport interface {
	Sync(index uint16) error
	SendCommand(pkt []byte) error
}

// DefaultResponseTimeout bounds how long a command waits for its
// command-complete or command-status event.
const DefaultResponseTimeout = 10 * time.Second

type cmdResult struct {
	status uint8
	err    error
}

// mgmtConn correlates commands written to the management socket with
// the command-complete / command-status events read back from it. One
// read loop dispatches events; writers park on a per-opcode channel.
type mgmtConn struct {
	d       io.ReadWriteCloser
	timeout time.Duration

	smu sync.Mutex // serializes in-flight commands

	pmu     sync.Mutex
	pending map[uint16]chan cmdResult

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial opens the BlueZ management control socket and returns a transport
// over it.
func Dial() (Transport, error) {
	d, err := newControlSocket()
	if err != nil {
		return nil, errors.Wrap(err, "open management socket")
	}
	return NewTransport(d), nil
}

// NewTransport wraps an already-open management channel. It is the
// injection point for tests and for hosts that manage the socket
// themselves.
func NewTransport(d io.ReadWriteCloser) Transport {
	c := &mgmtConn{
		d:       d,
		timeout: DefaultResponseTimeout,
		pending: make(map[uint16]chan cmdResult),
		closed:  make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *mgmtConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.d.Close()
}

// Sync performs the one-time handshake for a controller index: a
// version probe on the no-controller index followed by a controller
// information read on the target adapter.
func (c *mgmtConn) Sync(index uint16) error {
	if err := c.SendCommand(marshalCmd(ControllerNone, readVersion{})); err != nil {
		return errors.Wrap(err, "read management version")
	}
	if err := c.SendCommand(marshalCmd(index, readControllerInfo{})); err != nil {
		return errors.Wrapf(err, "read controller %d information", index)
	}
	return nil
}

func (c *mgmtConn) SendCommand(pkt []byte) error {
	if len(pkt) < hdrLen {
		return errors.New("command packet shorter than header")
	}
	op := uint16(pkt[0]) | uint16(pkt[1])<<8

	c.smu.Lock()
	defer c.smu.Unlock()

	done := make(chan cmdResult, 1)
	c.pmu.Lock()
	c.pending[op] = done
	c.pmu.Unlock()
	defer func() {
		c.pmu.Lock()
		delete(c.pending, op)
		c.pmu.Unlock()
	}()

	if n, err := c.d.Write(pkt); err != nil {
		return errors.Wrapf(err, "send %s", cmdCode(op))
	} else if n != len(pkt) {
		return errors.Errorf("short write sending %s: %d of %d bytes", cmdCode(op), n, len(pkt))
	}

	select {
	case r := <-done:
		if r.err != nil {
			return r.err
		}
		if r.status != statusSuccess {
			return errors.Errorf("%s: %s (0x%02X)", cmdCode(op), statusText(r.status), r.status)
		}
		return nil
	case <-time.After(c.timeout):
		return errors.Errorf("%s: no response from adapter", cmdCode(op))
	case <-c.closed:
		return errors.New("management channel closed")
	}
}

func (c *mgmtConn) loop() {
	b := make([]byte, 1024)
	for {
		n, err := c.d.Read(b)
		if err != nil || n == 0 {
			c.Close()
			return
		}
		p := make([]byte, n)
		copy(p, b[:n])
		if err := c.dispatch(p); err != nil {
			log.Debugf("mgmt: dropped event: %v [% X]", err, p)
		}
	}
}

func (c *mgmtConn) dispatch(b []byte) error {
	var h eventHeader
	if err := h.unmarshal(b); err != nil {
		return err
	}
	params := b[hdrLen : hdrLen+int(h.plen)]
	switch h.event {
	case evtCommandComplete:
		var ep commandCompleteEvent
		if err := ep.unmarshal(params); err != nil {
			return err
		}
		c.deliver(ep.opcode, ep.status)
	case evtCommandStatus:
		var ep commandStatusEvent
		if err := ep.unmarshal(params); err != nil {
			return err
		}
		c.deliver(ep.opcode, ep.status)
	default:
		// Unsolicited events (new settings, index added, ...) are
		// informational at this layer.
		log.Debugf("mgmt: event 0x%04X index %d plen %d", uint16(h.event), h.index, h.plen)
	}
	return nil
}

func (c *mgmtConn) deliver(opcode uint16, status uint8) {
	c.pmu.Lock()
	done, ok := c.pending[opcode]
	c.pmu.Unlock()
	if !ok {
		log.Debugf("mgmt: response for %s with no command in flight", cmdCode(opcode))
		return
	}
	select {
	case done <- cmdResult{status: status}:
	default:
	}
}
