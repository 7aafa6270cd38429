package mirror

import (
	"time"
)

// Delay is a queued, possibly time-deferred record of a pending filesystem
// event for one path. A delay is created when an event is offered to a sync,
// mutated only by collapse resolution (which may rewrite its kind, including
// to EventNone), and destroyed when popped by the dispatcher.
type Delay struct {
	// kind is the kind of the pending event. It may be rewritten by collapse
	// resolution.
	kind EventKind
	// pathname is the event path, relative to the sync's source root.
	pathname string
	// pathname2 is the destination path for split moves, relative to the
	// sync's source root. It is empty for all other kinds.
	pathname2 string
	// alarm is the monotonic timestamp at which the delay becomes eligible
	// for dispatch.
	alarm time.Time
	// next points at the next-younger delay stacked on the same pathname, if
	// any. The pathname index always references the oldest delay in a stack.
	next *Delay
}

// Kind returns the delay's current event kind.
func (d *Delay) Kind() EventKind {
	return d.kind
}

// Pathname returns the delay's event path, relative to the sync's source
// root.
func (d *Delay) Pathname() string {
	return d.pathname
}

// Alarm returns the monotonic timestamp at which the delay becomes eligible
// for dispatch.
func (d *Delay) Alarm() time.Time {
	return d.alarm
}
