package mirror

import (
	"testing"
	"time"
)

// newWatchTestFixture creates an engine with a single sync rooted at
// /watched for watch manager tests.
func newWatchTestFixture(host *testHost) (*Engine, *Sync) {
	sync := NewSync("sync_test", "/watched", "remote:/mirror/", &Policy{
		Delay:        time.Second,
		MaxProcesses: 1,
		OnAny:        func(Inlet) int { return 0 },
	}, host, nil)
	engine := NewEngine(host, nil)
	engine.AddSync(sync)
	return engine, sync
}

// TestWatchRecursion tests that arming a watch descends into existing
// subdirectories.
func TestWatchRecursion(t *testing.T) {
	host := newTestHost()
	host.subdirs["/watched/"] = []string{"one", "two"}
	host.subdirs["/watched/one/"] = []string{"nested"}
	engine, _ := newWatchTestFixture(host)

	engine.watch("/watched", engine.Syncs()[0], "", true)

	expected := []string{"/watched/", "/watched/one/", "/watched/one/nested/", "/watched/two/"}
	if len(host.addWatchCalls) != len(expected) {
		t.Fatal("unexpected number of watch registrations:", host.addWatchCalls)
	}
	for i, path := range expected {
		if host.addWatchCalls[i] != path {
			t.Error("watch registration order incorrect:", host.addWatchCalls[i], "!=", path)
		}
	}
	if engine.WatchedDirectories() != 4 {
		t.Error("unexpected watch count:", engine.WatchedDirectories())
	}
}

// TestWatchFailureSwallowed tests that a watch registration failure skips the
// subtree without affecting the rest of the tree.
func TestWatchFailureSwallowed(t *testing.T) {
	host := newTestHost()
	host.subdirs["/watched/"] = []string{"good", "bad"}
	host.subdirs["/watched/bad/"] = []string{"invisible"}
	host.failWatches["/watched/bad/"] = true
	engine, _ := newWatchTestFixture(host)

	engine.watch("/watched", engine.Syncs()[0], "", true)

	// The failed subtree must not be watched, but its siblings must be.
	if engine.WatchedDirectories() != 2 {
		t.Error("unexpected watch count:", engine.WatchedDirectories())
	}
	for _, path := range host.addWatchCalls {
		if path == "/watched/bad/invisible/" {
			t.Error("descended into unwatchable subtree")
		}
	}
}

// TestOnKernelEventDelivery tests that events are resolved through the watch
// table and offered to the bound sync with prefixed pathnames.
func TestOnKernelEventDelivery(t *testing.T) {
	host := newTestHost()
	host.subdirs["/watched/"] = []string{"sub"}
	engine, sync := newWatchTestFixture(host)
	engine.watch("/watched", sync, "", true)

	// Deliver an event inside the subdirectory.
	wd := host.watches["/watched/sub/"]
	engine.OnKernelEvent(EventModify, wd, false, host.now, "file", "")

	// Verify that the sync received the prefixed pathname.
	if delay, ok := sync.delayname["sub/file"]; !ok {
		t.Fatal("event not delivered with prefixed pathname")
	} else if delay.kind != EventModify {
		t.Error("delivered event has incorrect kind:", delay.kind)
	}
}

// TestOnKernelEventDirectoryCreation tests that creation of a directory
// inside a watched tree starts watching the new subtree exactly once and
// that subsequent events inside it reach the sync with proper prefixes.
func TestOnKernelEventDirectoryCreation(t *testing.T) {
	host := newTestHost()
	engine, sync := newWatchTestFixture(host)
	engine.watch("/watched", sync, "", true)

	// Deliver the directory creation.
	rootWD := host.watches["/watched/"]
	engine.OnKernelEvent(EventCreate, rootWD, true, host.now, "sub", "")

	// Verify that the subtree was watched exactly once.
	var registrations int
	for _, path := range host.addWatchCalls {
		if path == "/watched/sub/" {
			registrations++
		}
	}
	if registrations != 1 {
		t.Fatal("unexpected number of subtree registrations:", registrations)
	}

	// Deliver an event inside the new subtree and verify its prefix.
	subWD := host.watches["/watched/sub/"]
	engine.OnKernelEvent(EventCreate, subWD, false, host.now, "file", "")
	if _, ok := sync.delayname["sub/file"]; !ok {
		t.Error("event inside new subtree not delivered with prefix")
	}
}

// TestOnKernelEventDirectoryMoveIn tests that a directory moved into the
// watched tree starts watching the destination subtree.
func TestOnKernelEventDirectoryMoveIn(t *testing.T) {
	host := newTestHost()
	engine, sync := newWatchTestFixture(host)
	engine.watch("/watched", sync, "", true)

	rootWD := host.watches["/watched/"]
	engine.OnKernelEvent(EventMove, rootWD, true, host.now, "old", "new")

	if _, ok := host.watches["/watched/new/"]; !ok {
		t.Error("move destination subtree not watched")
	}

	// With no move handler configured, the move splits into a delete/create
	// pair.
	if sync.PendingDelays() != 2 {
		t.Error("move not split into delete/create pair:", sync.PendingDelays())
	}
}

// TestOnKernelEventUnknownDescriptor tests that events on unknown watch
// descriptors are discarded without effect.
func TestOnKernelEventUnknownDescriptor(t *testing.T) {
	host := newTestHost()
	engine, sync := newWatchTestFixture(host)
	engine.watch("/watched", sync, "", true)

	engine.OnKernelEvent(EventModify, 9999, false, host.now, "file", "")

	if sync.PendingDelays() != 0 {
		t.Error("event on unknown descriptor reached a sync")
	}
}

// TestSharedDescriptorBindings tests that two syncs watching the same
// directory share its descriptor and both receive events.
func TestSharedDescriptorBindings(t *testing.T) {
	host := newTestHost()
	first := NewSync("sync_first", "/watched", "remote:/first/", &Policy{
		Delay: time.Second, MaxProcesses: 1, OnAny: func(Inlet) int { return 0 },
	}, host, nil)
	second := NewSync("sync_second", "/watched", "remote:/second/", &Policy{
		Delay: time.Second, MaxProcesses: 1, OnAny: func(Inlet) int { return 0 },
	}, host, nil)
	engine := NewEngine(host, nil)
	engine.AddSync(first)
	engine.AddSync(second)

	engine.watch("/watched", first, "", true)
	engine.watch("/watched", second, "", true)

	// Both bindings share a single descriptor.
	if engine.WatchedDirectories() != 1 {
		t.Fatal("shared directory not deduplicated:", engine.WatchedDirectories())
	}

	// Both syncs receive the event.
	wd := host.watches["/watched/"]
	engine.OnKernelEvent(EventModify, wd, false, host.now, "file", "")
	if first.PendingDelays() != 1 || second.PendingDelays() != 1 {
		t.Error("event not delivered to all bindings:",
			first.PendingDelays(), second.PendingDelays())
	}
}

// TestOnWatchDropped tests that implicit descriptor removal discards its
// bindings.
func TestOnWatchDropped(t *testing.T) {
	host := newTestHost()
	engine, sync := newWatchTestFixture(host)
	engine.watch("/watched", sync, "", true)

	wd := host.watches["/watched/"]
	engine.OnWatchDropped(wd)

	if engine.WatchedDirectories() != 0 {
		t.Error("dropped descriptor still bound")
	}

	// Events racing the removal are now unknown-descriptor events.
	engine.OnKernelEvent(EventModify, wd, false, host.now, "file", "")
	if sync.PendingDelays() != 0 {
		t.Error("event on dropped descriptor reached a sync")
	}
}

// TestOnOverflow tests that overflow reports produce the fatal overflow
// error.
func TestOnOverflow(t *testing.T) {
	host := newTestHost()
	engine, _ := newWatchTestFixture(host)

	if err := engine.OnOverflow(); err != ErrEventQueueOverflow {
		t.Error("overflow did not produce the expected error:", err)
	}
}
