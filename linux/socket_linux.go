//go:build linux

package linux

import (
	"io"
	"sync"

	"golang.org/x/sys/unix"
)

// mgmtSocket is the raw HCI control channel. Reads and writes each take
// their own lock so a blocked read never starves a command write.
type mgmtSocket struct {
	fd  int
	rmu sync.Mutex
	wmu sync.Mutex
}

// newControlSocket binds a raw Bluetooth socket to the management
// control channel. The channel is not tied to a single adapter; command
// packets carry the controller index themselves.
func newControlSocket() (io.ReadWriteCloser, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return nil, err
	}
	sa := &unix.SockaddrHCI{Dev: ControllerNone, Channel: unix.HCI_CHANNEL_CONTROL}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &mgmtSocket{fd: fd}, nil
}

func (s *mgmtSocket) Read(b []byte) (int, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	return unix.Read(s.fd, b)
}

func (s *mgmtSocket) Write(b []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return unix.Write(s.fd, b)
}

func (s *mgmtSocket) Close() error {
	return unix.Close(s.fd)
}
