package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceIDs(t *testing.T) {
	gen := NewSequenceIDs("story")
	assert.Equal(t, "story-0001", gen.Generate())
	assert.Equal(t, "story-0002", gen.Generate())
}

func TestSequenceIDs_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "req-0001", NewSequenceIDs("").Generate())
}
