package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	id, err := Normalize("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	assert.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id)

	_, err = Normalize("not-an-id")
	assert.Error(t, err)
}

func TestCompact(t *testing.T) {
	prev := NewFunc
	defer func() { NewFunc = prev }()
	NewFunc = func() string { return "6ba7b810-9dad-11d1-80b4-00c04fd430c8" }
	assert.Equal(t, "6ba7b8109dad11d180b400c04fd430c8", Compact())
}
