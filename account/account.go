// Package account defines the caller identity used throughout the minting
// engine. An ID is opaque to the engine: only equality matters. Syntax is
// checked at the edges (setup data files, HTTP authentication) with Parse.
package account

import (
	"fmt"
	"regexp"
)

const (
	// MinLength is the shortest accepted account id.
	MinLength = 2
	// MaxLength is the longest accepted account id (implicit hex ids are 64 chars).
	MaxLength = 64
)

// Lowercase alphanumeric parts joined by '.', with single '-' or '_'
// separators inside a part.
var idPattern = regexp.MustCompile(`^(([a-z\d]+[-_])*[a-z\d]+\.)*([a-z\d]+[-_])*[a-z\d]+$`)

// ID is an account handle.
type ID string

// String returns the id as a plain string.
func (id ID) String() string { return string(id) }

// Validate checks the id syntax.
func (id ID) Validate() error {
	if id == "" {
		return ErrEmptyID
	}
	if len(id) < MinLength || len(id) > MaxLength {
		return fmt.Errorf("%w: %d", ErrInvalidLength, len(id))
	}
	if !idPattern.MatchString(string(id)) {
		return fmt.Errorf("%w: %q", ErrInvalidSyntax, string(id))
	}
	return nil
}

// Parse validates s and returns it as an ID.
func Parse(s string) (ID, error) {
	id := ID(s)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// ParseAll parses every element of ss, failing on the first invalid entry.
// Order and duplicates are preserved.
func ParseAll(ss []string) ([]ID, error) {
	ids := make([]ID, 0, len(ss))
	for i, s := range ss {
		id, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
