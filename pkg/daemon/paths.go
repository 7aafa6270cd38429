// Package daemon provides daemon-level infrastructure: the per-configuration
// lock that prevents concurrent daemons from mirroring the same
// configuration, and the filesystem paths backing it.
package daemon

import (
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/livemirror-io/livemirror/pkg/encoding"
)

const (
	// daemonDirectoryName is the name of the Livemirror data directory
	// inside the user's home directory.
	daemonDirectoryName = ".livemirror"
	// EnvironmentFileName is the name of the optional environment file
	// loaded at startup, relative to the Livemirror data directory.
	EnvironmentFileName = "environment"
)

// Directory computes (creating it if necessary) the path of the Livemirror
// data directory.
func Directory() (string, error) {
	// Compute the path.
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "unable to compute home directory")
	}
	directory := filepath.Join(home, daemonDirectoryName)

	// Ensure that it exists.
	if err := os.MkdirAll(directory, 0700); err != nil {
		return "", errors.Wrap(err, "unable to create data directory")
	}

	// Success.
	return directory, nil
}

// subpath computes a path inside the Livemirror data directory, creating the
// directory if necessary.
func subpath(name string) (string, error) {
	directory, err := Directory()
	if err != nil {
		return "", err
	}
	return filepath.Join(directory, name), nil
}

// lockName computes the lock file name for a configuration file path. The
// name is derived from a digest of the path so that distinct configurations
// lock independently.
func lockName(configurationPath string) string {
	digest := sha256.Sum256([]byte(configurationPath))
	return "daemon_" + encoding.EncodeBase62(digest[:16]) + ".lock"
}
