package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// NewFunc returns a new identifier. Override in tests for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier as string.
func New() string { return NewFunc() }

// Normalize parses a caller supplied identifier and returns its canonical
// UUID form.
func Normalize(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid id %q: %w", id, err)
	}
	return parsed.String(), nil
}

// Compact returns an identifier without dashes, suitable for run ids.
func Compact() string {
	id := New()
	if parsed, err := uuid.Parse(id); err == nil {
		return fmt.Sprintf("%x", parsed[:])
	}
	return id
}
