//go:build windows

package cmd

import "path/filepath"

// promptLock is a no-op on Windows; consoles are not shared between
// processes the way a Unix tty is.
type promptLock struct{}

func sessionLockPath(dir string) string {
	return filepath.Join(dir, "prompt.lock")
}

func acquireLock(string) (*promptLock, error) {
	return &promptLock{}, nil
}

func (l *promptLock) Release() {}
