// Package inotify provides a thin layer over the Linux inotify facility,
// exposing per-directory watch registration by descriptor and a stream of
// decoded notification batches. Move halves sharing a cookie within a batch
// are paired into single move notifications; unpaired halves degrade to
// deletions and creations.
package inotify

import (
	"github.com/livemirror-io/livemirror/pkg/mirror"
)

// Notification is a single decoded kernel notification.
type Notification struct {
	// WD is the watch descriptor that the notification arrived on.
	WD int
	// Kind is the event kind.
	Kind mirror.EventKind
	// IsDir indicates whether or not the event subject is a directory.
	IsDir bool
	// Name is the subject's name relative to the watched directory.
	Name string
	// Name2 is the destination name for paired moves.
	Name2 string
	// Overflow indicates that the kernel event queue overflowed. No other
	// field is meaningful when set.
	Overflow bool
	// Dropped indicates that the kernel implicitly removed the watch (e.g.
	// because the watched directory was deleted). Only WD is meaningful when
	// set.
	Dropped bool
}
