package filesystem

import (
	"os"

	"github.com/pkg/errors"
)

// SubdirectoryNames enumerates the names of the immediate subdirectories of
// the directory at the specified path. Symbolic links are not followed, so a
// link to a directory is not treated as a subdirectory. The result order is
// that returned by the operating system.
func SubdirectoryNames(path string) ([]string, error) {
	// Read the directory contents.
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read directory contents")
	}

	// Extract subdirectory names.
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	// Success.
	return names, nil
}
