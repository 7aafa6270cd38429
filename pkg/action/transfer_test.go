package action

import (
	"testing"

	"github.com/livemirror-io/livemirror/pkg/mirror"
)

// testSpawner records spawn requests and returns a fixed PID.
type testSpawner struct {
	// pid is the PID to return.
	pid int
	// programs records spawned programs.
	programs []string
	// arguments records spawned argument vectors.
	arguments [][]string
}

// Spawn implements Spawner.Spawn.
func (s *testSpawner) Spawn(program string, arguments []string) int {
	s.programs = append(s.programs, program)
	s.arguments = append(s.arguments, arguments)
	return s.pid
}

// testInlet is a fixed-event Inlet implementation.
type testInlet struct {
	// event is the event to return.
	event mirror.Event
}

// Policy implements mirror.Inlet.Policy.
func (i *testInlet) Policy() *mirror.Policy {
	return nil
}

// NextEvent implements mirror.Inlet.NextEvent.
func (i *testInlet) NextEvent() mirror.Event {
	return i.event
}

// contains returns whether or not an argument vector contains the specified
// argument.
func contains(arguments []string, argument string) bool {
	for _, a := range arguments {
		if a == argument {
			return true
		}
	}
	return false
}

// TestNewTransferDefaults tests default program and argument selection.
func TestNewTransferDefaults(t *testing.T) {
	spawner := &testSpawner{pid: 42}
	transfer, err := NewTransfer("", "", nil, spawner, nil)
	if err != nil {
		t.Fatal("unable to create transfer:", err)
	}

	transfer.Startup("/src", "remote:/dst/")
	if spawner.programs[0] != "rsync" {
		t.Error("default program incorrect:", spawner.programs[0])
	}
	if !contains(spawner.arguments[0], "-a") {
		t.Error("default arguments missing:", spawner.arguments[0])
	}
}

// TestNewTransferArgumentParsing tests shell-quoted argument parsing.
func TestNewTransferArgumentParsing(t *testing.T) {
	// Verify parsing of quoted arguments.
	transfer, err := NewTransfer("rsync", `-az --rsh "ssh -p 2222"`, nil, &testSpawner{pid: 1}, nil)
	if err != nil {
		t.Fatal("unable to create transfer:", err)
	}
	if len(transfer.arguments) != 3 || transfer.arguments[2] != "ssh -p 2222" {
		t.Error("quoted arguments parsed incorrectly:", transfer.arguments)
	}

	// Verify rejection of malformed quoting.
	if _, err := NewTransfer("rsync", `--rsh "unterminated`, nil, &testSpawner{pid: 1}, nil); err == nil {
		t.Error("malformed argument string accepted")
	}
}

// TestCopyArguments tests argument construction for path replication.
func TestCopyArguments(t *testing.T) {
	spawner := &testSpawner{pid: 42}
	transfer, err := NewTransfer("", "", []string{"*.tmp"}, spawner, nil)
	if err != nil {
		t.Fatal("unable to create transfer:", err)
	}

	pid := transfer.Copy(&testInlet{event: mirror.Event{
		Kind:       mirror.EventModify,
		Pathname:   "sub/file",
		SourcePath: "/src/sub/file",
		TargetPath: "remote:/dst/sub/file",
	}})
	if pid != 42 {
		t.Error("spawned PID not returned:", pid)
	}

	arguments := spawner.arguments[0]
	if !contains(arguments, "--relative") {
		t.Error("relative transfer not requested:", arguments)
	}
	if !contains(arguments, "--exclude=*.tmp") {
		t.Error("exclusion not forwarded:", arguments)
	}
	if arguments[len(arguments)-2] != "/src/./sub/file" {
		t.Error("source anchor incorrect:", arguments[len(arguments)-2])
	}
	if arguments[len(arguments)-1] != "remote:/dst/" {
		t.Error("target incorrect:", arguments[len(arguments)-1])
	}
}

// TestRemoveArguments tests argument construction for deletions, which
// mirror the parent directory with deletion enabled.
func TestRemoveArguments(t *testing.T) {
	spawner := &testSpawner{pid: 42}
	transfer, err := NewTransfer("", "", nil, spawner, nil)
	if err != nil {
		t.Fatal("unable to create transfer:", err)
	}

	transfer.Remove(&testInlet{event: mirror.Event{
		Kind:       mirror.EventDelete,
		Pathname:   "sub/file",
		SourcePath: "/src/sub/file",
		TargetPath: "remote:/dst/sub/file",
	}})

	arguments := spawner.arguments[0]
	if !contains(arguments, "--delete") {
		t.Error("deletion not requested:", arguments)
	}
	if arguments[len(arguments)-2] != "/src/./sub/" {
		t.Error("source parent anchor incorrect:", arguments[len(arguments)-2])
	}
	if arguments[len(arguments)-1] != "remote:/dst/" {
		t.Error("target incorrect:", arguments[len(arguments)-1])
	}
}

// TestRemoveArgumentsAtRoot tests deletion argument construction for a path
// directly under the source root.
func TestRemoveArgumentsAtRoot(t *testing.T) {
	spawner := &testSpawner{pid: 42}
	transfer, err := NewTransfer("", "", nil, spawner, nil)
	if err != nil {
		t.Fatal("unable to create transfer:", err)
	}

	transfer.Remove(&testInlet{event: mirror.Event{
		Kind:       mirror.EventDelete,
		Pathname:   "file",
		SourcePath: "/src/file",
		TargetPath: "remote:/dst/file",
	}})

	arguments := spawner.arguments[0]
	if arguments[len(arguments)-2] != "/src/./" {
		t.Error("source root anchor incorrect:", arguments[len(arguments)-2])
	}
}

// TestStartupArguments tests argument construction for whole-tree
// synchronization.
func TestStartupArguments(t *testing.T) {
	spawner := &testSpawner{pid: 42}
	transfer, err := NewTransfer("", "", []string{"cache/**"}, spawner, nil)
	if err != nil {
		t.Fatal("unable to create transfer:", err)
	}

	transfer.Startup("/src", "remote:/dst/")

	arguments := spawner.arguments[0]
	if !contains(arguments, "--delete") {
		t.Error("deletion not requested:", arguments)
	}
	if !contains(arguments, "--exclude=cache/**") {
		t.Error("exclusion not forwarded:", arguments)
	}
	if arguments[len(arguments)-2] != "/src/" {
		t.Error("source incorrect:", arguments[len(arguments)-2])
	}
	if arguments[len(arguments)-1] != "remote:/dst/" {
		t.Error("target incorrect:", arguments[len(arguments)-1])
	}
}
