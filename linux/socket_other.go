//go:build !linux

package linux

import (
	"io"

	"github.com/pkg/errors"
)

func newControlSocket() (io.ReadWriteCloser, error) {
	return nil, errors.New("the management control channel requires linux")
}
