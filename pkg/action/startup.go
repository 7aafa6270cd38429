package action

import (
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"

	"github.com/livemirror-io/livemirror/pkg/logging"
	"github.com/livemirror-io/livemirror/pkg/mirror"
)

// NewStartupCommand parses a shell-quoted command line into a startup action
// that spawns the command with the sync's source and target appended as its
// final two arguments.
func NewStartupCommand(commandLine string, spawner Spawner, logger *logging.Logger) (mirror.StartupAction, error) {
	// Parse the command line.
	words, err := shellquote.Split(commandLine)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse startup command")
	} else if len(words) == 0 {
		return nil, errors.New("empty startup command")
	}
	program := words[0]
	arguments := words[1:]

	// Create the action.
	return func(source, target string) int {
		logger.Debugf("running startup command %s for %s", program, source)
		return spawner.Spawn(program, append(append([]string{}, arguments...), source, target))
	}, nil
}
