// Package action implements the default transfer policy: invoking an
// external rsync process to replicate individual events and to perform
// startup synchronization of whole trees.
package action

import (
	"path"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"github.com/livemirror-io/livemirror/pkg/logging"
	"github.com/livemirror-io/livemirror/pkg/mirror"
)

// defaultProgram is the transfer program used when none is configured.
const defaultProgram = "rsync"

// defaultArguments are the transfer arguments used when none are configured.
var defaultArguments = []string{"-a"}

// Spawner starts a child process running the specified program without
// blocking, returning its PID or a negative value on spawn failure.
type Spawner interface {
	Spawn(program string, arguments []string) int
}

// Transfer builds and spawns rsync invocations for a single sync.
type Transfer struct {
	// program is the rsync program to invoke.
	program string
	// arguments are the base arguments prepended to every invocation.
	arguments []string
	// excludes are exclusion patterns forwarded to rsync on every
	// invocation.
	excludes []string
	// spawner starts child processes.
	spawner Spawner
	// logger is the transfer's logger.
	logger *logging.Logger
}

// NewTransfer creates a transfer policy. The argument string is parsed with
// shell quoting rules; an empty program or argument string selects the
// defaults.
func NewTransfer(program, arguments string, excludes []string, spawner Spawner, logger *logging.Logger) (*Transfer, error) {
	if program == "" {
		program = defaultProgram
	}
	parsed := defaultArguments
	if arguments != "" {
		var err error
		if parsed, err = shellquote.Split(arguments); err != nil {
			return nil, errors.Wrap(err, "unable to parse transfer arguments")
		}
	}
	return &Transfer{
		program:   program,
		arguments: parsed,
		excludes:  excludes,
		spawner:   spawner,
		logger:    logger,
	}, nil
}

// excludeArguments converts the transfer's exclusion patterns to rsync
// arguments.
func (t *Transfer) excludeArguments() []string {
	var arguments []string
	for _, pattern := range t.excludes {
		arguments = append(arguments, "--exclude="+pattern)
	}
	return arguments
}

// Copy replicates the event's path from source to target. The path is
// anchored with rsync's relative syntax so that missing parent directories
// are created on the target.
func (t *Transfer) Copy(inlet mirror.Inlet) int {
	event := inlet.NextEvent()
	arguments := append([]string{}, t.arguments...)
	arguments = append(arguments, "--relative")
	arguments = append(arguments, t.excludeArguments()...)
	arguments = append(arguments, anchor(event.SourcePath, event.Pathname), target(event.TargetPath, event.Pathname))
	t.logger.Debugf("copying %s", event.Pathname)
	return t.spawner.Spawn(t.program, arguments)
}

// Remove mirrors the parent directory of the event's path with deletion
// enabled, removing the path from the target. Mirroring the parent rather
// than the path itself also repairs any siblings that diverged while the
// deletion was pending.
func (t *Transfer) Remove(inlet mirror.Inlet) int {
	event := inlet.NextEvent()
	parent := path.Dir(event.Pathname)
	if parent == "." {
		parent = ""
	} else {
		parent += "/"
	}
	arguments := append([]string{}, t.arguments...)
	arguments = append(arguments, "--relative", "--delete")
	arguments = append(arguments, t.excludeArguments()...)
	root := event.SourcePath[:len(event.SourcePath)-len(event.Pathname)]
	arguments = append(arguments, root+"./"+parent, target(event.TargetPath, event.Pathname))
	t.logger.Debugf("removing %s", event.Pathname)
	return t.spawner.Spawn(t.program, arguments)
}

// Startup synchronizes the whole source tree to the target with deletion
// enabled. It is used for the startup phase.
func (t *Transfer) Startup(source, targetIdentifier string) int {
	arguments := append([]string{}, t.arguments...)
	arguments = append(arguments, "--delete")
	arguments = append(arguments, t.excludeArguments()...)
	arguments = append(arguments, source+"/", targetIdentifier)
	t.logger.Debugf("performing full synchronization of %s", source)
	return t.spawner.Spawn(t.program, arguments)
}

// anchor splits an absolute source path into rsync's relative transfer
// syntax, inserting the /./ anchor between the source root and the
// sync-relative pathname.
func anchor(sourcePath, pathname string) string {
	root := sourcePath[:len(sourcePath)-len(pathname)]
	return root + "./" + pathname
}

// target computes the transfer destination: the target identifier with the
// sync-relative pathname stripped, since rsync's relative syntax re-appends
// it.
func target(targetPath, pathname string) string {
	return targetPath[:len(targetPath)-len(pathname)]
}
