// Package configuration implements loading and validation of Livemirror
// configuration files.
package configuration

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"github.com/livemirror-io/livemirror/pkg/encoding"
	"github.com/livemirror-io/livemirror/pkg/logging"
	"github.com/livemirror-io/livemirror/pkg/mirror"
)

const (
	// DefaultDelaySeconds is the delay applied to timestamped events when no
	// delay is configured.
	DefaultDelaySeconds = 5
	// DefaultMaxProcesses is the child process cap applied when none is
	// configured.
	DefaultMaxProcesses = 1
)

// Startup modes.
const (
	// StartupNone skips startup synchronization.
	StartupNone = "none"
	// StartupFull performs a whole-tree synchronization before entering
	// normal operation.
	StartupFull = "full"
	// StartupCommand runs a custom command before entering normal
	// operation, with the sync's source and target appended as arguments.
	StartupCommand = "command"
)

// Rsync configures the transfer program for a sync.
type Rsync struct {
	// Program is the rsync program to invoke. If empty, "rsync" is used.
	Program string `yaml:"program"`
	// Arguments is a shell-quoted string of base arguments. If empty, "-a"
	// is used.
	Arguments string `yaml:"arguments"`
}

// Defaults configures settings shared by all syncs unless overridden.
type Defaults struct {
	// Delay is the event deferral time in seconds.
	Delay *uint `yaml:"delay"`
	// MaxProcesses is the per-sync child process cap.
	MaxProcesses *uint `yaml:"max_processes"`
	// LogLevel is the logging level name.
	LogLevel string `yaml:"log_level"`
	// StatusPath is the path to which status reports are written. If empty,
	// reports go to standard error.
	StatusPath string `yaml:"status_path"`
	// Rsync configures the transfer program.
	Rsync Rsync `yaml:"rsync"`
}

// Sync declares a single replication unit.
type Sync struct {
	// Name optionally names the sync. Unnamed syncs receive generated
	// identifiers.
	Name string `yaml:"name"`
	// Source is the source tree path. It must name an existing directory.
	Source string `yaml:"source"`
	// Target is the opaque target identifier handed to the transfer
	// program. For rsync it should carry a trailing slash.
	Target string `yaml:"target"`
	// Delay overrides the default event deferral time in seconds.
	Delay *uint `yaml:"delay"`
	// MaxProcesses overrides the default child process cap.
	MaxProcesses *uint `yaml:"max_processes"`
	// Exclude lists doublestar patterns for paths that are not replicated.
	Exclude []string `yaml:"exclude"`
	// Startup selects the startup synchronization mode ("none", "full", or
	// "command"). If empty, "full" is used.
	Startup string `yaml:"startup"`
	// StartupCommand is the shell-quoted command run in "command" startup
	// mode. The sync's source and target are appended as its final two
	// arguments.
	StartupCommand string `yaml:"startup_command"`
	// Rsync overrides the default transfer program configuration.
	Rsync *Rsync `yaml:"rsync"`
	// Collapse overrides entries of the default collapse table. Keys are
	// event kind names; values name the resulting kind, "cancel", or
	// "stack".
	Collapse map[string]map[string]string `yaml:"collapse"`
}

// Configuration is the root of a Livemirror configuration file.
type Configuration struct {
	// Defaults configures settings shared by all syncs.
	Defaults Defaults `yaml:"defaults"`
	// Syncs declares the replication units.
	Syncs []Sync `yaml:"syncs"`
}

// Load loads and validates a configuration file.
func Load(path string) (*Configuration, error) {
	// Load and decode.
	result := &Configuration{}
	if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
		return nil, err
	}

	// Validate.
	if err := result.Validate(); err != nil {
		return nil, err
	}

	// Success.
	return result, nil
}

// Validate checks the configuration for structural problems. Source
// existence is not checked here: it is verified when syncs are materialized.
func (c *Configuration) Validate() error {
	// Verify that at least one sync is declared.
	if len(c.Syncs) == 0 {
		return errors.New("no syncs declared")
	}

	// Verify the log level, if specified.
	if c.Defaults.LogLevel != "" {
		if _, ok := logging.NameToLevel(c.Defaults.LogLevel); !ok {
			return errors.Errorf("unknown log level: %s", c.Defaults.LogLevel)
		}
	}

	// Verify each sync declaration.
	for i := range c.Syncs {
		if err := c.Syncs[i].validate(); err != nil {
			name := c.Syncs[i].Name
			if name == "" {
				name = "(unnamed)"
			}
			return errors.Wrapf(err, "sync %s (index %d)", name, i)
		}
	}

	// Success.
	return nil
}

// validate checks a single sync declaration.
func (s *Sync) validate() error {
	// Verify the endpoints.
	if s.Source == "" {
		return errors.New("source not specified")
	}
	if s.Target == "" {
		return errors.New("target not specified")
	}

	// Verify the process cap.
	if s.MaxProcesses != nil && *s.MaxProcesses < 1 {
		return errors.New("max_processes must be at least 1")
	}

	// Verify the startup mode and its command.
	switch s.Startup {
	case "", StartupNone, StartupFull:
		if s.StartupCommand != "" {
			return errors.New("startup_command requires startup mode \"command\"")
		}
	case StartupCommand:
		if s.StartupCommand == "" {
			return errors.New("startup mode \"command\" requires startup_command")
		}
		if words, err := shellquote.Split(s.StartupCommand); err != nil {
			return errors.Wrap(err, "unable to parse startup_command")
		} else if len(words) == 0 {
			return errors.New("startup_command is empty")
		}
	default:
		return errors.Errorf("unknown startup mode: %s", s.Startup)
	}

	// Verify the exclusion patterns.
	for _, pattern := range s.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclusion pattern: %s", pattern)
		}
	}

	// Verify the collapse overrides.
	if _, err := s.CollapseTable(); err != nil {
		return err
	}

	// Success.
	return nil
}

// CollapseTable builds the sync's collapse table: the default table with the
// declared overrides applied. A nil return with a nil error indicates that no
// overrides were declared and the default table applies.
func (s *Sync) CollapseTable() (*mirror.CollapseTable, error) {
	if len(s.Collapse) == 0 {
		return nil, nil
	}

	table := mirror.DefaultCollapseTable()
	for priorName, row := range s.Collapse {
		prior, ok := mirror.ParseEventKind(priorName)
		if !ok {
			return nil, errors.Errorf("unknown event kind in collapse table: %s", priorName)
		}
		for newName, outcomeName := range row {
			arriving, ok := mirror.ParseEventKind(newName)
			if !ok {
				return nil, errors.Errorf("unknown event kind in collapse table: %s", newName)
			}
			var outcome mirror.CollapseOutcome
			switch outcomeName {
			case "cancel":
				outcome = mirror.CollapseCancel
			case "stack":
				outcome = mirror.CollapseStack
			default:
				kind, ok := mirror.ParseEventKind(outcomeName)
				if !ok {
					return nil, errors.Errorf("unknown collapse outcome: %s", outcomeName)
				}
				outcome = mirror.CollapseInto(kind)
			}
			table.Set(prior, arriving, outcome)
		}
	}
	return table, nil
}

// DelayFor resolves the effective event deferral time for a sync.
func (c *Configuration) DelayFor(s *Sync) time.Duration {
	if s.Delay != nil {
		return time.Duration(*s.Delay) * time.Second
	}
	if c.Defaults.Delay != nil {
		return time.Duration(*c.Defaults.Delay) * time.Second
	}
	return DefaultDelaySeconds * time.Second
}

// MaxProcessesFor resolves the effective child process cap for a sync.
func (c *Configuration) MaxProcessesFor(s *Sync) int {
	if s.MaxProcesses != nil {
		return int(*s.MaxProcesses)
	}
	if c.Defaults.MaxProcesses != nil && *c.Defaults.MaxProcesses >= 1 {
		return int(*c.Defaults.MaxProcesses)
	}
	return DefaultMaxProcesses
}

// RsyncFor resolves the effective transfer program configuration for a sync.
func (c *Configuration) RsyncFor(s *Sync) Rsync {
	if s.Rsync != nil {
		return *s.Rsync
	}
	return c.Defaults.Rsync
}
