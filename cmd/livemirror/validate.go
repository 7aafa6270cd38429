package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/livemirror-io/livemirror/cmd"
	"github.com/livemirror-io/livemirror/pkg/configuration"
)

func validateMain(_ *cobra.Command, _ []string) error {
	// Verify that a configuration file was specified.
	if validateConfiguration.configuration == "" {
		return errors.New("no configuration file specified")
	}

	// Load and validate the configuration.
	if _, err := configuration.Load(validateConfiguration.configuration); err != nil {
		return errors.Wrap(err, "configuration invalid")
	}

	// Success.
	fmt.Println("Configuration valid")
	return nil
}

var validateCommand = &cobra.Command{
	Use:          "validate",
	Short:        "Validate a configuration file without running",
	Args:         cmd.DisallowArguments,
	RunE:         validateMain,
	SilenceUsage: true,
}

var validateConfiguration struct {
	// help indicates whether or not to show help information and exit.
	help bool
	// configuration is the configuration file path.
	configuration string
}

func init() {
	// Grab a handle for the command line flags.
	flags := validateCommand.Flags()

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&validateConfiguration.help, "help", "h", false, "Show help information")

	// Add the configuration file flag.
	flags.StringVarP(&validateConfiguration.configuration, "configuration", "c", "", "Specify the configuration file")
}
