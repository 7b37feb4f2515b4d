//go:build !windows

package picker

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Lock is an advisory lock held while a picker may be on screen.
type Lock struct {
	fd int
}

// AcquireLock takes an exclusive, non-blocking flock on path. It returns
// ErrAlreadyRunning when another process holds it.
func AcquireLock(path string) (*Lock, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file: %w", err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("cannot lock %s: %w", path, err)
	}

	return &Lock{fd: fd}, nil
}

// Release drops the lock. It is safe to call on a nil or released Lock.
func (l *Lock) Release() {
	if l == nil || l.fd < 0 {
		return
	}
	_ = unix.Flock(l.fd, unix.LOCK_UN)
	_ = unix.Close(l.fd)
	l.fd = -1
}
