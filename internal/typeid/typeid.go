package typeid

import (
	"errors"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefixes for the ids this service mints. Block and layer ids inside a
// document are plain UUIDs chosen by the editor.
const (
	PrefixSnapshot = "snap"
	PrefixDocument = "doc"
	PrefixSession  = "sess"
)

var ErrInvalidID = errors.New("invalid id")

func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewDocumentID() string { return New(PrefixDocument) }
func NewSessionID() string  { return New(PrefixSession) }

// Validate checks that id parses and carries expectedPrefix. Failures wrap
// ErrInvalidID.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	if p := parsed.Prefix(); p != expectedPrefix {
		return fmt.Errorf("%w %q: prefix %q, want %q", ErrInvalidID, id, p, expectedPrefix)
	}
	return nil
}

// ValidDocumentID reports whether id is a document id minted by NewDocumentID.
func ValidDocumentID(id string) bool {
	return Validate(id, PrefixDocument) == nil
}
