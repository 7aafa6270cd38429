package mirror

// CollapseOutcome encodes the result of a collapse table lookup. Negative
// values indicate cancellation, zero indicates stacking, and positive values
// name the event kind that the prior delay is rewritten to.
type CollapseOutcome int8

const (
	// CollapseCancel indicates that the prior delay and the new event
	// annihilate: the prior delay is nullified and the new event is dropped.
	CollapseCancel CollapseOutcome = -1
	// CollapseStack indicates that the new event is queued behind the prior
	// delay, with both firing in order.
	CollapseStack CollapseOutcome = 0
)

// CollapseInto returns the outcome that rewrites the prior delay to the
// specified event kind and drops the new event.
func CollapseInto(kind EventKind) CollapseOutcome {
	return CollapseOutcome(kind)
}

// CollapseTable decides how a newly offered event combines with an already
// pending delay on the same path. It is a two-dimensional map over event
// kinds: the first key is the kind of the pending delay, the second the kind
// of the new event. Entries absent from the table resolve to stacking.
type CollapseTable struct {
	// entries holds the table contents.
	entries map[EventKind]map[EventKind]CollapseOutcome
}

// NewCollapseTable creates an empty collapse table.
func NewCollapseTable() *CollapseTable {
	return &CollapseTable{
		entries: make(map[EventKind]map[EventKind]CollapseOutcome),
	}
}

// Set records the outcome for the specified prior/new kind combination,
// replacing any existing entry.
func (t *CollapseTable) Set(prior, arriving EventKind, outcome CollapseOutcome) {
	row := t.entries[prior]
	if row == nil {
		row = make(map[EventKind]CollapseOutcome)
		t.entries[prior] = row
	}
	row[arriving] = outcome
}

// resolve looks up the outcome for the specified prior/new kind combination.
// Combinations absent from the table stack.
func (t *CollapseTable) resolve(prior, arriving EventKind) CollapseOutcome {
	if row, ok := t.entries[prior]; ok {
		if outcome, ok := row[arriving]; ok {
			return outcome
		}
	}
	return CollapseStack
}

// DefaultCollapseTable returns the engine's default collapse table:
//
//	          attrib  modify  create  delete
//	attrib    attrib  modify  create  delete
//	modify    modify  modify  create  delete
//	create    create  create  create  cancel
//	delete    delete  delete  modify  delete
//
// A create followed by a delete annihilates, a delete followed by a create
// degrades to a modify (the file returns with new content), same-kind
// repetitions are idempotent, and modify dominates attrib.
func DefaultCollapseTable() *CollapseTable {
	table := NewCollapseTable()

	table.Set(EventAttrib, EventAttrib, CollapseInto(EventAttrib))
	table.Set(EventAttrib, EventModify, CollapseInto(EventModify))
	table.Set(EventAttrib, EventCreate, CollapseInto(EventCreate))
	table.Set(EventAttrib, EventDelete, CollapseInto(EventDelete))

	table.Set(EventModify, EventAttrib, CollapseInto(EventModify))
	table.Set(EventModify, EventModify, CollapseInto(EventModify))
	table.Set(EventModify, EventCreate, CollapseInto(EventCreate))
	table.Set(EventModify, EventDelete, CollapseInto(EventDelete))

	table.Set(EventCreate, EventAttrib, CollapseInto(EventCreate))
	table.Set(EventCreate, EventModify, CollapseInto(EventCreate))
	table.Set(EventCreate, EventCreate, CollapseInto(EventCreate))
	table.Set(EventCreate, EventDelete, CollapseCancel)

	table.Set(EventDelete, EventAttrib, CollapseInto(EventDelete))
	table.Set(EventDelete, EventModify, CollapseInto(EventDelete))
	table.Set(EventDelete, EventCreate, CollapseInto(EventModify))
	table.Set(EventDelete, EventDelete, CollapseInto(EventDelete))

	return table
}
