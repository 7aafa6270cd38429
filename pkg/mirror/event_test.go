package mirror

import (
	"testing"
)

// TestEventKindStrings tests event kind formatting.
func TestEventKindStrings(t *testing.T) {
	cases := map[EventKind]string{
		EventNone:     "none",
		EventAttrib:   "attrib",
		EventModify:   "modify",
		EventCreate:   "create",
		EventDelete:   "delete",
		EventMove:     "move",
		EventMoveFrom: "movefrom",
		EventMoveTo:   "moveto",
	}
	for kind, expected := range cases {
		if kind.String() != expected {
			t.Error("unexpected formatting:", kind.String(), "!=", expected)
		}
	}
}

// TestParseEventKind tests that only collapsible kinds are parseable.
func TestParseEventKind(t *testing.T) {
	for _, name := range []string{"attrib", "modify", "create", "delete"} {
		if kind, ok := ParseEventKind(name); !ok {
			t.Error("valid kind name rejected:", name)
		} else if kind.String() != name {
			t.Error("kind name did not round-trip:", name)
		}
	}
	for _, name := range []string{"none", "move", "movefrom", "moveto", "bogus"} {
		if _, ok := ParseEventKind(name); ok {
			t.Error("unparseable kind name accepted:", name)
		}
	}
}
