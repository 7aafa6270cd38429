package mirror

import (
	"time"

	"github.com/livemirror-io/livemirror/pkg/logging"
)

// Host provides the primitives that the engine consumes from the runtime it
// is embedded in. All methods are invoked from the single engine thread.
type Host interface {
	// AddWatch registers a kernel watch on the directory at the specified
	// path and returns its watch descriptor. A negative descriptor indicates
	// registration failure.
	AddWatch(path string) int
	// SubDirs enumerates the basenames of the immediate subdirectories of
	// the directory at the specified path. Enumeration failures yield an
	// empty result.
	SubDirs(path string) []string
	// Now returns the current monotonic time.
	Now() time.Time
	// WaitChildren blocks until all of the specified child processes have
	// exited and returns their exit codes by PID. It is used only during the
	// startup phase.
	WaitChildren(pids []int) map[int]int
}

// Engine is the top-level event engine value. It owns the sync registry and
// the watch-descriptor bindings, and exposes the callbacks through which the
// host runtime drives it. The host holds exactly one Engine and invokes at
// most one callback at a time.
type Engine struct {
	// host provides the runtime primitives.
	host Host
	// logger is the engine's logger.
	logger *logging.Logger
	// syncs is the registry of all configured syncs.
	syncs []*Sync
	// wdlist maps kernel watch descriptors to their bindings. A single
	// descriptor carries multiple bindings when syncs observe overlapping
	// trees.
	wdlist map[int][]*binding
	// started is the time at which the engine entered normal operation.
	started time.Time
}

// NewEngine creates a new engine on top of the specified host.
func NewEngine(host Host, logger *logging.Logger) *Engine {
	return &Engine{
		host:   host,
		logger: logger,
		wdlist: make(map[int][]*binding),
	}
}

// AddSync registers a sync with the engine. All syncs must be registered
// before Start is invoked.
func (e *Engine) AddSync(sync *Sync) {
	e.syncs = append(e.syncs, sync)
}

// Syncs returns the registered syncs.
func (e *Engine) Syncs() []*Sync {
	return e.syncs
}

// Start transitions the engine into normal operation: it arms recursive
// watches for every registered sync and then runs the startup phase. Watches
// are armed before the startup actions run so that changes made during bulk
// initial synchronization are captured. Any startup child that exits with a
// nonzero code is fatal.
func (e *Engine) Start() error {
	// Arm watches.
	for _, sync := range e.syncs {
		e.watch(sync.Source(), sync, "", true)
	}

	// Run the startup actions and gather their children.
	var pids []int
	for _, sync := range e.syncs {
		if sync.policy.Startup == nil {
			continue
		}
		e.logger.Infof("running startup synchronization for %s", sync.Identifier())
		if pid := sync.policy.Startup(sync.Source(), sync.Target()); pid > 0 {
			pids = append(pids, pid)
		} else {
			sync.logger.Debug("startup action declined to spawn")
		}
	}

	// Wait for all startup children and verify their exit codes.
	if len(pids) > 0 {
		for pid, code := range e.host.WaitChildren(pids) {
			if code != 0 {
				return &StartupError{Pid: pid, Code: code}
			}
		}
	}

	// Record the transition into normal operation.
	e.started = e.host.Now()

	// Success.
	return nil
}

// StartupError indicates that a startup synchronization child exited with a
// nonzero code.
type StartupError struct {
	// Pid is the PID of the failed child.
	Pid int
	// Code is the child's exit code.
	Code int
}

// Error implements error.Error.
func (e *StartupError) Error() string {
	return "startup synchronization failed"
}
