//go:build windows || plan9
// +build windows plan9

package host

import (
	"os"
)

// notifyStatusRequests registers the status report request signal on the
// specified channel. There's no suitable signal on this platform, so status
// reports are unavailable.
func notifyStatusRequests(requests chan<- os.Signal) {}
