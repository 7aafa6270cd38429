//go:build windows || plan9
// +build windows plan9

package locking

import (
	"github.com/pkg/errors"
)

// Lock attempts to acquire the file lock.
func (l *Locker) Lock(block bool) error {
	return errors.New("file locking not supported on this platform")
}

// Unlock releases the file lock.
func (l *Locker) Unlock() error {
	return errors.New("file locking not supported on this platform")
}
