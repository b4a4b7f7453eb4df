//go:build !windows

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var errPromptOpen = errors.New("another selectpro prompt is open on this terminal")

// promptLock is an advisory flock held while a prompt is on screen.
type promptLock struct {
	fd int
}

// sessionLockPath names the lock of the terminal session the process runs
// in, so two terminals can prompt at once but one terminal cannot.
func sessionLockPath(dir string) string {
	sid, err := unix.Getsid(0)
	if err != nil {
		sid = os.Getppid()
	}
	return filepath.Join(dir, fmt.Sprintf("prompt-%d.lock", sid))
}

// acquireLock takes an exclusive lock on path without blocking.
func acquireLock(path string) (*promptLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create lock directory: %w", err)
	}
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file: %w", err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, errPromptOpen
		}
		return nil, fmt.Errorf("cannot lock %s: %w", path, err)
	}
	return &promptLock{fd: fd}, nil
}

func (l *promptLock) Release() {
	if l == nil || l.fd < 0 {
		return
	}
	unix.Flock(l.fd, unix.LOCK_UN)
	unix.Close(l.fd)
	l.fd = -1
}
