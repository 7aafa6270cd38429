//go:build !linux
// +build !linux

package inotify

import (
	"github.com/pkg/errors"

	"github.com/livemirror-io/livemirror/pkg/logging"
)

// WatchingSupported indicates whether or not the current platform supports
// kernel change notifications.
const WatchingSupported = false

// Watcher wraps an inotify instance. It is unavailable on this platform.
type Watcher struct{}

// NewWatcher creates a new inotify instance. It fails on this platform.
func NewWatcher(logger *logging.Logger) (*Watcher, error) {
	return nil, errors.New("kernel change notifications not supported on this platform")
}

// AddWatch registers a watch on the directory at the specified path.
func (w *Watcher) AddWatch(path string) int {
	return -1
}

// Notifications returns the decoded notification batch channel.
func (w *Watcher) Notifications() <-chan []Notification {
	return nil
}

// Errors returns the read failure channel.
func (w *Watcher) Errors() <-chan error {
	return nil
}

// Terminate shuts down the watcher.
func (w *Watcher) Terminate() error {
	return nil
}
