package main

import (
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/livemirror-io/livemirror/cmd"
	"github.com/livemirror-io/livemirror/pkg/action"
	"github.com/livemirror-io/livemirror/pkg/configuration"
	"github.com/livemirror-io/livemirror/pkg/daemon"
	"github.com/livemirror-io/livemirror/pkg/filesystem"
	"github.com/livemirror-io/livemirror/pkg/host"
	"github.com/livemirror-io/livemirror/pkg/identifier"
	"github.com/livemirror-io/livemirror/pkg/logging"
	"github.com/livemirror-io/livemirror/pkg/mirror"
)

// buildSync materializes one declared sync: it canonicalizes the source,
// assigns an identifier, wires the transfer policy, and creates the engine
// sync.
func buildSync(config *configuration.Configuration, declaration *configuration.Sync, h *host.Host, logger *logging.Logger) (*mirror.Sync, error) {
	// Canonicalize the source. The canonical path becomes the sync's source.
	source, err := filesystem.RealDirectory(declaration.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to resolve source %s", declaration.Source)
	}

	// Assign an identifier.
	name := declaration.Name
	if name == "" {
		if name, err = identifier.New(identifier.PrefixSync); err != nil {
			return nil, errors.Wrap(err, "unable to generate sync identifier")
		}
	}

	// Create the transfer policy.
	rsync := config.RsyncFor(declaration)
	transfer, err := action.NewTransfer(rsync.Program, rsync.Arguments,
		declaration.Exclude, h, logger.Sublogger(name))
	if err != nil {
		return nil, err
	}

	// Build the collapse table, if overrides were declared.
	collapse, err := declaration.CollapseTable()
	if err != nil {
		return nil, err
	}

	// Assemble the policy. Moves are handled by splitting into
	// delete/create pairs, since a single rsync invocation can't relocate a
	// path on the target.
	policy := &mirror.Policy{
		Delay:        config.DelayFor(declaration),
		MaxProcesses: config.MaxProcessesFor(declaration),
		Collapse:     collapse,
		Exclude:      declaration.Exclude,
		OnAttrib:     transfer.Copy,
		OnModify:     transfer.Copy,
		OnCreate:     transfer.Copy,
		OnDelete:     transfer.Remove,
	}
	switch declaration.Startup {
	case configuration.StartupNone:
	case configuration.StartupCommand:
		startup, err := action.NewStartupCommand(declaration.StartupCommand, h,
			logger.Sublogger(name))
		if err != nil {
			return nil, err
		}
		policy.Startup = startup
	default:
		policy.Startup = transfer.Startup
	}

	// Create the sync.
	return mirror.NewSync(name, source, declaration.Target, policy, h,
		logger.Sublogger("sync").Sublogger(name)), nil
}

func runMain(_ *cobra.Command, _ []string) error {
	// Verify that a configuration file was specified.
	if runConfiguration.configuration == "" {
		return errors.New("no configuration file specified")
	}
	configurationPath, err := filepath.Abs(runConfiguration.configuration)
	if err != nil {
		return errors.Wrap(err, "unable to resolve configuration path")
	}

	// Load any environment file from the data directory. A missing file is
	// fine.
	if directory, err := daemon.Directory(); err == nil {
		godotenv.Load(filepath.Join(directory, daemon.EnvironmentFileName))
	}

	// Load the configuration.
	config, err := configuration.Load(configurationPath)
	if err != nil {
		return errors.Wrap(err, "unable to load configuration")
	}

	// Resolve the log level: the command line flag takes precedence over the
	// configuration file.
	levelName := config.Defaults.LogLevel
	if runConfiguration.logLevel != "" {
		levelName = runConfiguration.logLevel
	}
	if levelName != "" {
		level, ok := logging.NameToLevel(levelName)
		if !ok {
			return errors.Errorf("unknown log level: %s", levelName)
		}
		logging.SetLevel(level)
	}
	log.SetFlags(log.Ldate | log.Ltime)
	logger := logging.RootLogger

	// Resolve the status file path: the command line flag takes precedence
	// over the configuration file.
	statusPath := config.Defaults.StatusPath
	if runConfiguration.statusFile != "" {
		statusPath = runConfiguration.statusFile
	}

	// Acquire the daemon lock for this configuration and defer its release.
	lock, err := daemon.AcquireLock(configurationPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	// Create the host and defer its termination.
	h, err := host.New(logger.Sublogger("host"))
	if err != nil {
		return err
	}
	defer h.Terminate()

	// Create the engine and materialize the syncs.
	engine := mirror.NewEngine(h, logger.Sublogger("engine"))
	for i := range config.Syncs {
		sync, err := buildSync(config, &config.Syncs[i], h, logger)
		if err != nil {
			return err
		}
		logger.Infof("mirroring %s -> %s (%s)", sync.Source(), sync.Target(), sync.Identifier())
		engine.AddSync(sync)
	}

	// Arm watches and run the startup phase.
	if err := engine.Start(); err != nil {
		return err
	}
	logger.Infof("watching %d directories", engine.WatchedDirectories())

	// Drive the engine until shutdown or a fatal condition.
	return h.Run(engine, statusPath)
}

var runCommand = &cobra.Command{
	Use:          "run",
	Short:        "Run the mirroring daemon",
	Args:         cmd.DisallowArguments,
	RunE:         runMain,
	SilenceUsage: true,
}

var runConfiguration struct {
	// help indicates whether or not to show help information and exit.
	help bool
	// configuration is the configuration file path.
	configuration string
	// logLevel overrides the configured log level.
	logLevel string
	// statusFile overrides the configured status file path.
	statusFile string
}

func init() {
	// Grab a handle for the command line flags.
	flags := runCommand.Flags()

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&runConfiguration.help, "help", "h", false, "Show help information")

	// Add command flags.
	flags.StringVarP(&runConfiguration.configuration, "configuration", "c", "", "Specify the configuration file")
	flags.StringVar(&runConfiguration.logLevel, "log-level", "", "Override the configured log level (error|warn|info|debug|trace)")
	flags.StringVar(&runConfiguration.statusFile, "status-file", "", "Override the configured status file path")
}
