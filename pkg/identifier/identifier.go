package identifier

import (
	"github.com/livemirror-io/livemirror/pkg/encoding"
	"github.com/livemirror-io/livemirror/pkg/random"
)

const (
	// PrefixSync is the prefix used for sync identifiers.
	PrefixSync = "sync_"
)

// New generates a new collision-resistant identifier with the specified
// prefix.
func New(prefix string) (string, error) {
	// Create the random value.
	value, err := random.New(random.CollisionResistantLength)
	if err != nil {
		return "", err
	}

	// Encode the random value.
	return prefix + encoding.EncodeBase62(value), nil
}
