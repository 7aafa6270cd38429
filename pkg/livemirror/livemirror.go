package livemirror

import (
	"fmt"
)

const (
	// VersionMajor represents the current major version of Livemirror.
	VersionMajor = 0
	// VersionMinor represents the current minor version of Livemirror.
	VersionMinor = 1
	// VersionPatch represents the current patch version of Livemirror.
	VersionPatch = 0
)

// Version provides a stringified version of the current Livemirror version.
var Version string

func init() {
	// Compute the stringified version.
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
