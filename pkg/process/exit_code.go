package process

import (
	"os/exec"

	"github.com/pkg/errors"
)

// ExitCodeForError extracts the process exit code associated with a
// (potentially nil) error returned from a process wait operation. If the error
// is nil, an exit code of 0 is returned. If the error carries no exit
// information (e.g. because the process never started), an error is returned.
func ExitCodeForError(err error) (int, error) {
	// A nil error indicates successful termination.
	if err == nil {
		return 0, nil
	}

	// Attempt to extract exit information from the error.
	if exitErr, ok := err.(*exec.ExitError); ok {
		code := exitErr.ProcessState.ExitCode()
		if code < 0 {
			return 0, errors.New("process terminated by signal")
		}
		return code, nil
	}

	// The error carries no exit information.
	return 0, errors.Wrap(err, "error does not carry exit information")
}
