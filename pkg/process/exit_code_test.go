package process

import (
	"testing"

	"github.com/pkg/errors"
)

// TestExitCodeForNilError tests exit code extraction from a nil error.
func TestExitCodeForNilError(t *testing.T) {
	if code, err := ExitCodeForError(nil); err != nil {
		t.Fatal("unable to extract exit code from nil error:", err)
	} else if code != 0 {
		t.Error("exit code for nil error incorrect:", code)
	}
}

// TestExitCodeForForeignError tests that an error without exit information is
// rejected.
func TestExitCodeForForeignError(t *testing.T) {
	if _, err := ExitCodeForError(errors.New("not an exit error")); err == nil {
		t.Error("exit code extracted from foreign error")
	}
}
