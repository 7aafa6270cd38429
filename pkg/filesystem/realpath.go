package filesystem

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// RealDirectory converts the specified path to a canonical absolute path with
// all symbolic links resolved, verifying that it names an existing directory.
// The result never carries a trailing slash (except for the root directory
// itself).
func RealDirectory(path string) (string, error) {
	// Convert to an absolute path.
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "unable to compute absolute path")
	}

	// Resolve symbolic links.
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", errors.Wrap(err, "unable to resolve symbolic links")
	}

	// Verify that the path names a directory.
	if info, err := os.Stat(resolved); err != nil {
		return "", errors.Wrap(err, "unable to probe path")
	} else if !info.IsDir() {
		return "", errors.New("path does not name a directory")
	}

	// Success.
	return resolved, nil
}
