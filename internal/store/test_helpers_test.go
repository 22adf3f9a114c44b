package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/storyteller/internal/story"
	"github.com/roach88/storyteller/internal/testutil"
)

// createTestStore creates a new temp-file store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRequest creates a pending request with minimal required fields.
func createTestRequest(id string) story.Request {
	return story.Request{
		ID:     id,
		Stamp:  "2024-10-24_15:51:30",
		Genre:  "Krimi",
		Prompt: "Du bist ein Autor von **Kurzgeschichten**.",
	}
}

// seedRequest writes draws and a pending request for id.
func seedRequest(t *testing.T, s *Store, id string) {
	t.Helper()
	ctx := context.Background()
	if err := s.SaveDraws(ctx, id, testutil.Draws(id)); err != nil {
		t.Fatalf("SaveDraws() failed: %v", err)
	}
	if err := s.SaveRequest(ctx, createTestRequest(id)); err != nil {
		t.Fatalf("SaveRequest() failed: %v", err)
	}
}
