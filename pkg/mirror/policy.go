package mirror

import (
	"time"
)

// Event describes a single pending transfer operation as handed to an action.
type Event struct {
	// Kind is the kind of the event.
	Kind EventKind
	// Pathname is the event path, relative to the sync's source root.
	Pathname string
	// SourcePath is the absolute path of the event inside the source tree.
	SourcePath string
	// TargetPath is the target identifier with the event path appended.
	TargetPath string
	// Pathname2 is the destination path for the source half of a split move,
	// relative to the sync's source root. It is empty for all other kinds.
	Pathname2 string
	// SourcePath2 is the absolute destination path inside the source tree
	// for the source half of a split move.
	SourcePath2 string
	// TargetPath2 is the target identifier with the move destination path
	// appended.
	TargetPath2 string
}

// Inlet is the opaque handle that an action receives when invoked, exposing
// its sync's policy and the event to service.
type Inlet interface {
	// Policy returns the policy of the sync that the action is servicing.
	Policy() *Policy
	// NextEvent returns the event to service.
	NextEvent() Event
}

// Action services a single event, usually by spawning a child process. It
// returns the child's PID, or a non-positive sentinel to indicate that it
// declined to spawn (in which case the event is considered complete).
type Action func(inlet Inlet) int

// StartupAction performs initial synchronization for a sync before the engine
// enters normal operation. It returns the PID of the child process performing
// the synchronization, or a non-positive sentinel to decline.
type StartupAction func(source, target string) int

// Policy carries the per-sync replication policy: event handlers, delay and
// concurrency settings, collapse behavior, and path exclusions.
type Policy struct {
	// Delay is the time by which timestamped events are deferred before
	// becoming eligible for dispatch.
	Delay time.Duration
	// MaxProcesses caps the number of concurrently running child processes
	// for the sync. It must be at least 1.
	MaxProcesses int
	// Collapse is the collapse table consulted when an offered event finds a
	// pending delay on the same path. If nil, the default table is used.
	Collapse *CollapseTable
	// Exclude lists doublestar patterns for paths that are dropped at offer
	// time, before queueing.
	Exclude []string
	// OnAttrib handles metadata-only modifications.
	OnAttrib Action
	// OnModify handles content modifications.
	OnModify Action
	// OnCreate handles creations.
	OnCreate Action
	// OnDelete handles deletions.
	OnDelete Action
	// OnMove handles moves, receiving the source half of the split move with
	// both paths populated. If nil, moves are split into delete/create pairs
	// before queueing.
	OnMove Action
	// OnAny handles any event kind for which no dedicated handler is set.
	OnAny Action
	// Startup performs initial synchronization before normal operation.
	Startup StartupAction
}

// collapseTable returns the policy's collapse table, falling back to the
// default table.
func (p *Policy) collapseTable() *CollapseTable {
	if p.Collapse != nil {
		return p.Collapse
	}
	return defaultCollapseTable
}

// defaultCollapseTable is the shared default collapse table instance. It is
// never mutated after initialization.
var defaultCollapseTable = DefaultCollapseTable()

// actionFor returns the action responsible for the specified event kind, or
// nil if the policy doesn't handle the kind. The destination half of a split
// move has no action of its own: the move is serviced in full when its source
// half dispatches.
func (p *Policy) actionFor(kind EventKind) Action {
	var action Action
	switch kind {
	case EventAttrib:
		action = p.OnAttrib
	case EventModify:
		action = p.OnModify
	case EventCreate:
		action = p.OnCreate
	case EventDelete:
		action = p.OnDelete
	case EventMoveFrom:
		return p.OnMove
	case EventMoveTo:
		return nil
	}
	if action == nil {
		action = p.OnAny
	}
	return action
}
