//go:build !windows && !plan9
// +build !windows,!plan9

package host

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// notifyStatusRequests registers the status report request signal (SIGUSR1)
// on the specified channel.
func notifyStatusRequests(requests chan<- os.Signal) {
	signal.Notify(requests, unix.SIGUSR1)
}
