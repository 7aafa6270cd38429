// Package host implements the runtime that the event engine is embedded in:
// the real clock, kernel watch registration, child process spawning and
// reaping, and the run loop that drives the engine's callbacks.
package host

import (
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/livemirror-io/livemirror/pkg/filesystem"
	"github.com/livemirror-io/livemirror/pkg/inotify"
	"github.com/livemirror-io/livemirror/pkg/logging"
	"github.com/livemirror-io/livemirror/pkg/process"
)

const (
	// exitChannelCapacity is the capacity of the child exit channel. It
	// bounds the number of exits that can queue while the engine is inside a
	// callback.
	exitChannelCapacity = 128
)

// childExit records the termination of a child process.
type childExit struct {
	// pid is the child's PID.
	pid int
	// code is the child's exit code.
	code int
}

// Host is the runtime environment for one engine. It implements the engine's
// Host interface and the action layer's Spawner interface.
type Host struct {
	// logger is the host's logger.
	logger *logging.Logger
	// watcher is the kernel notification watcher.
	watcher *inotify.Watcher
	// exits delivers child process terminations to the run loop.
	exits chan childExit
}

// New creates a host, including its kernel notification watcher.
func New(logger *logging.Logger) (*Host, error) {
	// Create the watcher.
	watcher, err := inotify.NewWatcher(logger.Sublogger("inotify"))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create watcher")
	}

	// Create the host.
	return &Host{
		logger:  logger,
		watcher: watcher,
		exits:   make(chan childExit, exitChannelCapacity),
	}, nil
}

// Terminate shuts down the host's watcher.
func (h *Host) Terminate() error {
	return h.watcher.Terminate()
}

// Now implements the engine's monotonic clock.
func (h *Host) Now() time.Time {
	return time.Now()
}

// AddWatch implements kernel watch registration for the engine.
func (h *Host) AddWatch(path string) int {
	return h.watcher.AddWatch(path)
}

// SubDirs implements subdirectory enumeration for the engine. Enumeration
// failures are logged and yield an empty result: the affected subtree is
// simply not observed.
func (h *Host) SubDirs(path string) []string {
	names, err := filesystem.SubdirectoryNames(path)
	if err != nil {
		h.logger.Warnf("unable to enumerate %s: %v", path, err)
		return nil
	}
	return names
}

// Spawn starts a child process without blocking and returns its PID, or a
// negative value if the process couldn't be started. The child's output is
// forwarded to the host's logger. Termination is reported asynchronously to
// the run loop.
func (h *Host) Spawn(program string, arguments []string) int {
	// Create the command, forwarding output to the logger.
	command := exec.Command(program, arguments...)
	command.Stdout = h.logger.Writer(logging.LevelDebug)
	command.Stderr = h.logger.Writer(logging.LevelWarn)

	// Start the child.
	if err := command.Start(); err != nil {
		h.logger.Errorf("unable to start %s: %v", program, err)
		return -1
	}
	pid := command.Process.Pid

	// Reap the child asynchronously, forwarding its exit to the run loop.
	go func() {
		code, err := process.ExitCodeForError(command.Wait())
		if err != nil {
			h.logger.Warnf("unable to determine exit code for child %d: %v", pid, err)
			code = 1
		}
		h.exits <- childExit{pid: pid, code: code}
	}()

	// Success.
	return pid
}

// WaitChildren blocks until all of the specified children have exited and
// returns their exit codes by PID. It is used only during the startup phase,
// before the run loop starts, so the exit channel has no other consumer.
func (h *Host) WaitChildren(pids []int) map[int]int {
	// Index the PIDs we're waiting for.
	pending := make(map[int]bool, len(pids))
	for _, pid := range pids {
		pending[pid] = true
	}

	// Collect exits until all children are accounted for.
	results := make(map[int]int, len(pids))
	for len(pending) > 0 {
		exit := <-h.exits
		if pending[exit.pid] {
			delete(pending, exit.pid)
			results[exit.pid] = exit.code
		} else {
			h.logger.Warnf("unexpected child %d exited during startup", exit.pid)
		}
	}
	return results
}

// writeStatus generates a status report. Reports go to the status file if one
// is configured (written atomically) and to standard error otherwise.
func (h *Host) writeStatus(report []byte, statusPath string) {
	if statusPath == "" {
		os.Stderr.Write(report)
		return
	}
	if err := filesystem.WriteFileAtomic(statusPath, report, 0644); err != nil {
		h.logger.Warnf("unable to write status file: %v", err)
	}
}
