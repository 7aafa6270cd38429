//go:build linux
// +build linux

package inotify

import (
	"bytes"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"

	"golang.org/x/sys/unix"

	"github.com/livemirror-io/livemirror/pkg/logging"
	"github.com/livemirror-io/livemirror/pkg/mirror"
)

const (
	// watchMask is the inotify event mask used for all watches.
	watchMask = unix.IN_ATTRIB |
		unix.IN_MODIFY | unix.IN_CLOSE_WRITE |
		unix.IN_CREATE | unix.IN_DELETE |
		unix.IN_MOVED_FROM | unix.IN_MOVED_TO |
		unix.IN_DELETE_SELF | unix.IN_MOVE_SELF

	// readBufferSize is the size of the kernel read buffer. It must be able
	// to hold at least one maximum-length event (the inotify header plus a
	// NAME_MAX name).
	readBufferSize = 64 * 1024

	// notificationChannelCapacity is the capacity of the notification batch
	// channel.
	notificationChannelCapacity = 64
)

// WatchingSupported indicates whether or not the current platform supports
// kernel change notifications.
const WatchingSupported = true

// Watcher wraps an inotify instance.
type Watcher struct {
	// fd is the inotify file descriptor.
	fd int
	// logger is the watcher's logger.
	logger *logging.Logger
	// notifications is the decoded notification batch channel.
	notifications chan []Notification
	// errors is the read failure channel.
	errors chan error
	// terminated indicates that termination has been requested, in which
	// case read failures are expected and not reported.
	terminated int32
}

// NewWatcher creates a new inotify instance and starts its read loop.
func NewWatcher(logger *logging.Logger) (*Watcher, error) {
	// Create the inotify instance.
	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize inotify")
	}

	// Create the watcher.
	watcher := &Watcher{
		fd:            fd,
		logger:        logger,
		notifications: make(chan []Notification, notificationChannelCapacity),
		errors:        make(chan error, 1),
	}

	// Start the read loop.
	go watcher.run()

	// Success.
	return watcher, nil
}

// AddWatch registers a watch on the directory at the specified path and
// returns its watch descriptor. A negative descriptor indicates registration
// failure. Watching the same directory again returns the existing descriptor.
func (w *Watcher) AddWatch(path string) int {
	wd, err := unix.InotifyAddWatch(w.fd, path, watchMask)
	if err != nil {
		w.logger.Debugf("watch registration failed for %s: %v", path, err)
		return -1
	}
	return wd
}

// Notifications returns the decoded notification batch channel.
func (w *Watcher) Notifications() <-chan []Notification {
	return w.notifications
}

// Errors returns the read failure channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Terminate shuts down the watcher. The read loop unblocks with a failure
// that is swallowed due to the termination request.
func (w *Watcher) Terminate() error {
	atomic.StoreInt32(&w.terminated, 1)
	return unix.Close(w.fd)
}

// run is the read loop. It reads raw event batches from the kernel, decodes
// them, and forwards them on the notification channel.
func (w *Watcher) run() {
	buffer := make([]byte, readBufferSize)
	for {
		// Read the next batch.
		length, err := unix.Read(w.fd, buffer)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if atomic.LoadInt32(&w.terminated) == 0 {
				w.errors <- errors.Wrap(err, "unable to read from inotify")
			}
			return
		}

		// Decode and forward the batch.
		if batch := decode(buffer[:length]); len(batch) > 0 {
			w.notifications <- batch
		}
	}
}

// decode converts a raw kernel event batch into notifications. Move halves
// sharing a cookie on the same watch descriptor are paired into single move
// notifications; halves left unpaired at the end of the batch (the other
// half being outside the watched trees, in another directory, or in another
// batch) degrade to deletions and creations.
func decode(data []byte) []Notification {
	var notifications []Notification

	// pendingMoves maps move cookies to the index of their source-half
	// notification.
	pendingMoves := make(map[uint32]int)

	for offset := 0; offset+unix.SizeofInotifyEvent <= len(data); {
		// Decode the event header.
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&data[offset]))
		nameLength := int(raw.Len)

		// Decode the name, trimming NUL padding.
		var name string
		if nameLength > 0 {
			nameBytes := data[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+nameLength]
			if index := bytes.IndexByte(nameBytes, 0); index >= 0 {
				nameBytes = nameBytes[:index]
			}
			name = string(nameBytes)
		}
		offset += unix.SizeofInotifyEvent + nameLength

		// Handle queue overflow.
		if raw.Mask&unix.IN_Q_OVERFLOW != 0 {
			notifications = append(notifications, Notification{Overflow: true})
			continue
		}

		// Handle implicit watch removal.
		if raw.Mask&unix.IN_IGNORED != 0 {
			notifications = append(notifications, Notification{WD: int(raw.Wd), Dropped: true})
			continue
		}

		// Self events carry no name and are subsumed by the parent
		// directory's own notifications.
		if raw.Mask&(unix.IN_DELETE_SELF|unix.IN_MOVE_SELF) != 0 {
			continue
		}

		// Build the notification.
		notification := Notification{
			WD:    int(raw.Wd),
			IsDir: raw.Mask&unix.IN_ISDIR != 0,
			Name:  name,
		}
		switch {
		case raw.Mask&unix.IN_ATTRIB != 0:
			notification.Kind = mirror.EventAttrib
		case raw.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) != 0:
			notification.Kind = mirror.EventModify
		case raw.Mask&unix.IN_CREATE != 0:
			notification.Kind = mirror.EventCreate
		case raw.Mask&unix.IN_DELETE != 0:
			notification.Kind = mirror.EventDelete
		case raw.Mask&unix.IN_MOVED_FROM != 0:
			notification.Kind = mirror.EventMoveFrom
			pendingMoves[raw.Cookie] = len(notifications)
		case raw.Mask&unix.IN_MOVED_TO != 0:
			// Pair with a pending source half on the same descriptor.
			if index, ok := pendingMoves[raw.Cookie]; ok && notifications[index].WD == int(raw.Wd) {
				notifications[index].Kind = mirror.EventMove
				notifications[index].Name2 = name
				notifications[index].IsDir = notification.IsDir
				delete(pendingMoves, raw.Cookie)
				continue
			}
			notification.Kind = mirror.EventMoveTo
		default:
			continue
		}
		notifications = append(notifications, notification)
	}

	// Degrade unpaired move halves.
	for i := range notifications {
		if notifications[i].Kind == mirror.EventMoveFrom {
			notifications[i].Kind = mirror.EventDelete
		} else if notifications[i].Kind == mirror.EventMoveTo {
			notifications[i].Kind = mirror.EventCreate
		}
	}

	return notifications
}
