// Package serialport opens a board's serial console for exclusive use by
// one host tool at a time.
package serialport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.bug.st/serial"

	"sbirt/config"
)

// Lock takes the per-port lock file that keeps two tools off the same port.
func Lock(port string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(os.TempDir(), "sbirt-"+filepath.Base(port)+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s is in use by another process", port)
	}
	return lock, nil
}

type Port struct {
	serial.Port
	lock   *flock.Flock
	closed chan struct{}
}

func Open(s config.Serial) (*Port, error) {
	lock, err := Lock(s.Port)
	if err != nil {
		return nil, err
	}
	p, err := serial.Open(s.Port, &serial.Mode{BaudRate: s.Baud})
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("open %s: %w", s.Port, err)
	}
	return &Port{Port: p, lock: lock, closed: make(chan struct{})}, nil
}

func (p *Port) Close() error {
	err := p.Port.Close()
	p.lock.Unlock()
	close(p.closed)
	return err
}

// Wait blocks until Close; a real board does not exit on its own.
func (p *Port) Wait() error {
	<-p.closed
	return nil
}
