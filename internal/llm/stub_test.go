package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_ReplaysInOrder(t *testing.T) {
	s := NewStub("eins", "zwei")
	ctx := context.Background()

	got, err := s.Generate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "eins", got)

	got, err = s.Generate(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "zwei", got)

	_, err = s.Generate(ctx, "p3")
	require.ErrorIs(t, err, ErrEmptyResponse)

	assert.Equal(t, []string{"p1", "p2", "p3"}, s.Prompts())
}

func TestStub_Err(t *testing.T) {
	boom := errors.New("connection refused")
	s := &Stub{Err: boom}

	_, err := s.Generate(context.Background(), "p")
	require.ErrorIs(t, err, boom)
}

func TestStub_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStub("eins").Generate(ctx, "p")
	require.ErrorIs(t, err, context.Canceled)
}

var _ Client = (*Stub)(nil)
var _ Client = (*Ollama)(nil)
