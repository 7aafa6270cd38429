//go:build !windows && !plan9
// +build !windows,!plan9

package locking

import (
	"path/filepath"
	"testing"
)

// TestLockerCycle tests a lock/unlock cycle on a locker.
func TestLockerCycle(t *testing.T) {
	// Create a locker and defer its closure.
	locker, err := NewLocker(filepath.Join(t.TempDir(), "lock"), 0600)
	if err != nil {
		t.Fatal("unable to create locker:", err)
	}
	defer locker.Close()

	// Acquire the lock.
	if err := locker.Lock(false); err != nil {
		t.Fatal("unable to acquire lock:", err)
	}

	// Release the lock.
	if err := locker.Unlock(); err != nil {
		t.Fatal("unable to release lock:", err)
	}
}
