package mirror

import (
	"time"

	"github.com/pkg/errors"
)

// ErrEventQueueOverflow indicates that the kernel dropped events because its
// notification queue overflowed. Overflow invalidates the engine's view of
// the watched trees, so it is fatal.
var ErrEventQueueOverflow = errors.New("kernel event queue overflowed")

// binding associates a watch descriptor with a sync and the position of the
// watched directory inside the sync's source tree.
type binding struct {
	// sync is the observing sync.
	sync *Sync
	// root is the sync's source root.
	root string
	// prefix is the watched directory's path relative to root. It is either
	// empty (for the root itself) or carries a trailing slash.
	prefix string
}

// watch registers a kernel watch on root + prefix on behalf of the specified
// sync and, if recurse is set, descends into its subdirectories. Watch
// registration failures are logged and swallowed: the affected subtree is
// silently not observed.
func (e *Engine) watch(root string, sync *Sync, prefix string, recurse bool) {
	// Compute the directory path.
	path := root + "/"
	if prefix != "" {
		path += prefix
	}

	// Register the kernel watch.
	wd := e.host.AddWatch(path)
	if wd < 0 {
		e.logger.Errorf("unable to watch %s", path)
		return
	}

	// Record the binding unless an identical one already exists (the kernel
	// returns the same descriptor when a directory is watched again).
	duplicate := false
	for _, existing := range e.wdlist[wd] {
		if existing.sync == sync && existing.root == root && existing.prefix == prefix {
			duplicate = true
			break
		}
	}
	if !duplicate {
		e.wdlist[wd] = append(e.wdlist[wd], &binding{
			sync:   sync,
			root:   root,
			prefix: prefix,
		})
		e.logger.Debugf("watching %s (wd %d)", path, wd)
	}

	// Recurse into subdirectories.
	if recurse {
		for _, name := range e.host.SubDirs(path) {
			e.watch(root, sync, prefix+name+"/", true)
		}
	}
}

// OnKernelEvent is the kernel notification callback. It resolves the watch
// descriptor to its bindings and offers the event to each bound sync. Events
// on unknown descriptors are expected (the kernel drops descriptors
// implicitly when a watched directory is deleted) and discarded. Creation or
// arrival of a directory starts watching the new subtree immediately.
func (e *Engine) OnKernelEvent(kind EventKind, wd int, isdir bool, at time.Time, name, name2 string) {
	// Resolve the descriptor.
	bindings := e.wdlist[wd]
	if len(bindings) == 0 {
		e.logger.Infof("discarding %v on unknown watch descriptor %d", kind, wd)
		return
	}

	// Deliver the event to each binding.
	for _, b := range bindings {
		// Compute the sync-relative paths.
		pathname := b.prefix + name
		var pathname2 string
		if name2 != "" {
			pathname2 = b.prefix + name2
		}

		// Offer the event to the sync's delay queue.
		b.sync.Offer(kind, at, pathname, pathname2)

		// Start watching subtrees that appear inside the watched tree,
		// whether created in place or moved in from outside.
		if isdir {
			if kind == EventCreate {
				e.watch(b.root, b.sync, pathname+"/", true)
			} else if kind == EventMove {
				e.watch(b.root, b.sync, pathname2+"/", true)
			}
		}
	}
}

// OnWatchDropped handles implicit removal of a watch descriptor by the
// kernel, which occurs when a watched directory is deleted or unmounted. The
// descriptor's bindings are discarded; events racing the removal surface as
// unknown-descriptor events and are benign.
func (e *Engine) OnWatchDropped(wd int) {
	if _, ok := e.wdlist[wd]; ok {
		e.logger.Debugf("watch descriptor %d dropped by kernel", wd)
		delete(e.wdlist, wd)
	}
}

// OnOverflow handles a kernel event queue overflow report. The engine cannot
// recover its view of the watched trees, so the overflow is logged and
// returned as a fatal error for the host to act on.
// TODO: Downgrade to a full re-scan that resets all delay queues once the
// action layer can express tree-wide synchronization outside of startup.
func (e *Engine) OnOverflow() error {
	e.logger.Error("kernel event queue overflowed")
	return ErrEventQueueOverflow
}

// WatchedDirectories returns the number of directories currently watched.
func (e *Engine) WatchedDirectories() int {
	return len(e.wdlist)
}
