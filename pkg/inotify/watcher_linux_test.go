//go:build linux
// +build linux

package inotify

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/livemirror-io/livemirror/pkg/mirror"
)

// appendRawEvent appends a raw inotify event to a buffer in the kernel's wire
// layout.
func appendRawEvent(buffer []byte, wd int32, mask, cookie uint32, name string) []byte {
	// Compute the padded name length (NUL-terminated, padded to the event
	// alignment the kernel uses).
	var padded []byte
	if name != "" {
		length := (len(name)/4 + 1) * 4
		padded = make([]byte, length)
		copy(padded, name)
	}

	// Build the header.
	raw := unix.InotifyEvent{
		Wd:     wd,
		Mask:   mask,
		Cookie: cookie,
		Len:    uint32(len(padded)),
	}
	header := (*[unix.SizeofInotifyEvent]byte)(unsafe.Pointer(&raw))[:]

	// Append.
	buffer = append(buffer, header...)
	buffer = append(buffer, padded...)
	return buffer
}

// TestDecodeBasicKinds tests decoding of the primary event kinds.
func TestDecodeBasicKinds(t *testing.T) {
	var buffer []byte
	buffer = appendRawEvent(buffer, 1, unix.IN_CREATE|unix.IN_ISDIR, 0, "sub")
	buffer = appendRawEvent(buffer, 1, unix.IN_CLOSE_WRITE, 0, "file")
	buffer = appendRawEvent(buffer, 2, unix.IN_ATTRIB, 0, "meta")
	buffer = appendRawEvent(buffer, 2, unix.IN_DELETE, 0, "gone")

	notifications := decode(buffer)
	if len(notifications) != 4 {
		t.Fatal("unexpected notification count:", len(notifications))
	}
	if notifications[0].Kind != mirror.EventCreate || !notifications[0].IsDir || notifications[0].Name != "sub" {
		t.Error("directory creation decoded incorrectly:", notifications[0])
	}
	if notifications[1].Kind != mirror.EventModify || notifications[1].Name != "file" {
		t.Error("modification decoded incorrectly:", notifications[1])
	}
	if notifications[2].Kind != mirror.EventAttrib || notifications[2].WD != 2 {
		t.Error("attribute change decoded incorrectly:", notifications[2])
	}
	if notifications[3].Kind != mirror.EventDelete || notifications[3].Name != "gone" {
		t.Error("deletion decoded incorrectly:", notifications[3])
	}
}

// TestDecodeMovePairing tests that move halves sharing a cookie on the same
// descriptor pair into a single move notification.
func TestDecodeMovePairing(t *testing.T) {
	var buffer []byte
	buffer = appendRawEvent(buffer, 1, unix.IN_MOVED_FROM, 77, "old")
	buffer = appendRawEvent(buffer, 1, unix.IN_MOVED_TO, 77, "new")

	notifications := decode(buffer)
	if len(notifications) != 1 {
		t.Fatal("move halves not paired:", len(notifications))
	}
	if notifications[0].Kind != mirror.EventMove {
		t.Error("paired move has incorrect kind:", notifications[0].Kind)
	}
	if notifications[0].Name != "old" || notifications[0].Name2 != "new" {
		t.Error("paired move names incorrect:", notifications[0].Name, notifications[0].Name2)
	}
}

// TestDecodeUnpairedMoveHalves tests that unpaired move halves degrade to
// deletions and creations.
func TestDecodeUnpairedMoveHalves(t *testing.T) {
	var buffer []byte
	buffer = appendRawEvent(buffer, 1, unix.IN_MOVED_FROM, 88, "out")
	buffer = appendRawEvent(buffer, 1, unix.IN_MOVED_TO, 99, "in")

	notifications := decode(buffer)
	if len(notifications) != 2 {
		t.Fatal("unexpected notification count:", len(notifications))
	}
	if notifications[0].Kind != mirror.EventDelete || notifications[0].Name != "out" {
		t.Error("unpaired source half decoded incorrectly:", notifications[0])
	}
	if notifications[1].Kind != mirror.EventCreate || notifications[1].Name != "in" {
		t.Error("unpaired destination half decoded incorrectly:", notifications[1])
	}
}

// TestDecodeCrossDescriptorMove tests that move halves on different
// descriptors degrade rather than pairing.
func TestDecodeCrossDescriptorMove(t *testing.T) {
	var buffer []byte
	buffer = appendRawEvent(buffer, 1, unix.IN_MOVED_FROM, 55, "old")
	buffer = appendRawEvent(buffer, 2, unix.IN_MOVED_TO, 55, "new")

	notifications := decode(buffer)
	if len(notifications) != 2 {
		t.Fatal("cross-descriptor move paired unexpectedly:", len(notifications))
	}
	if notifications[0].Kind != mirror.EventDelete {
		t.Error("cross-descriptor source half decoded incorrectly:", notifications[0].Kind)
	}
	if notifications[1].Kind != mirror.EventCreate {
		t.Error("cross-descriptor destination half decoded incorrectly:", notifications[1].Kind)
	}
}

// TestDecodeOverflowAndDropped tests decoding of overflow and implicit watch
// removal events.
func TestDecodeOverflowAndDropped(t *testing.T) {
	var buffer []byte
	buffer = appendRawEvent(buffer, -1, unix.IN_Q_OVERFLOW, 0, "")
	buffer = appendRawEvent(buffer, 3, unix.IN_IGNORED, 0, "")

	notifications := decode(buffer)
	if len(notifications) != 2 {
		t.Fatal("unexpected notification count:", len(notifications))
	}
	if !notifications[0].Overflow {
		t.Error("overflow not decoded")
	}
	if !notifications[1].Dropped || notifications[1].WD != 3 {
		t.Error("implicit removal not decoded:", notifications[1])
	}
}

// TestWatcherCycle tests watcher creation, registration, and termination
// against a real inotify instance.
func TestWatcherCycle(t *testing.T) {
	watcher, err := NewWatcher(nil)
	if err != nil {
		t.Fatal("unable to create watcher:", err)
	}

	// Register a watch on a temporary directory.
	if wd := watcher.AddWatch(t.TempDir()); wd < 0 {
		t.Error("unable to watch temporary directory")
	}

	// Registration on a non-existent path fails non-fatally.
	if wd := watcher.AddWatch("/nonexistent/path"); wd >= 0 {
		t.Error("watch on non-existent path succeeded unexpectedly")
	}

	// Terminate the watcher.
	if err := watcher.Terminate(); err != nil {
		t.Error("unable to terminate watcher:", err)
	}
}
