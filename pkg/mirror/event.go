package mirror

// EventKind identifies the kind of a filesystem event. The set is closed:
// kernel notifications deliver the five primary kinds, while EventMoveFrom
// and EventMoveTo are synthetic derivatives created when a move is split for
// queueing. EventNone marks a nullified delay that is skipped on dispatch.
type EventKind uint8

const (
	// EventNone represents a nullified event. Delays rewritten to EventNone
	// remain queued but are discarded without dispatch.
	EventNone EventKind = iota
	// EventAttrib represents a metadata-only modification.
	EventAttrib
	// EventModify represents a content modification.
	EventModify
	// EventCreate represents a creation.
	EventCreate
	// EventDelete represents a deletion.
	EventDelete
	// EventMove represents a move with both endpoints inside the watched
	// tree. Moves are split before queueing and never appear in a delay.
	EventMove
	// EventMoveFrom represents the source half of a split move.
	EventMoveFrom
	// EventMoveTo represents the destination half of a split move.
	EventMoveTo
)

// String provides a human-readable representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventAttrib:
		return "attrib"
	case EventModify:
		return "modify"
	case EventCreate:
		return "create"
	case EventDelete:
		return "delete"
	case EventMove:
		return "move"
	case EventMoveFrom:
		return "movefrom"
	case EventMoveTo:
		return "moveto"
	default:
		return "unknown"
	}
}

// ParseEventKind converts a string-based representation of an event kind to
// the corresponding EventKind value. It returns a boolean indicating whether
// or not the conversion was valid. Only the four collapsible kinds are
// parseable since they are the only kinds that configuration can name.
func ParseEventKind(name string) (EventKind, bool) {
	switch name {
	case "attrib":
		return EventAttrib, true
	case "modify":
		return EventModify, true
	case "create":
		return EventCreate, true
	case "delete":
		return EventDelete, true
	default:
		return EventNone, false
	}
}

// isMoveHalf returns whether or not the event kind is one of the synthetic
// move halves, which are exempt from collapse resolution.
func (k EventKind) isMoveHalf() bool {
	return k == EventMoveFrom || k == EventMoveTo
}
