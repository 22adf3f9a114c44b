package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/story"
	"github.com/roach88/storyteller/internal/testutil"
)

func TestSaveCatalog_ReplacesWholesale(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	has, err := s.HasCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	entries := testutil.CatalogEntries()
	require.NoError(t, s.SaveCatalog(ctx, entries))
	require.NoError(t, s.SaveCatalog(ctx, entries)) // idempotent

	got, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}

	// A smaller snapshot replaces the old one completely.
	require.NoError(t, s.SaveCatalog(ctx, entries[:6]))
	got, err = s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestSaveCatalog_DuplicateRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveCatalog(ctx, testutil.CatalogEntries()))

	dup := []catalog.Entry{
		{Group: "g", Die: 1, Face: 1, Token: "A", Image: "a"},
		{Group: "g", Die: 1, Face: 1, Token: "B", Image: "b"},
	}
	require.Error(t, s.SaveCatalog(ctx, dup))

	// Previous snapshot survives.
	got, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, got, story.DiceCount*story.FaceCount)
}

func TestSaveDraws_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	draws := testutil.Draws("req-1")
	require.NoError(t, s.SaveDraws(ctx, "req-1", draws))

	got, err := s.ReadDraws(ctx, "req-1")
	require.NoError(t, err)
	if diff := cmp.Diff(draws, got); diff != "" {
		t.Errorf("draws mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveDraws_AssignsRequestAndPosition(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	draws := testutil.Draws("")
	for i := range draws {
		draws[i].Position = 99
	}
	require.NoError(t, s.SaveDraws(ctx, "req-7", draws))

	got, err := s.ReadDraws(ctx, "req-7")
	require.NoError(t, err)
	require.Len(t, got, story.DiceCount)
	for i, d := range got {
		assert.Equal(t, "req-7", d.RequestID)
		assert.Equal(t, i, d.Position)
		assert.Equal(t, draws[i].Die, d.Die)
		assert.Equal(t, draws[i].Token, d.Token)
	}
}

func TestSaveDraws_RejectsInvalidRoll(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.SaveDraws(ctx, "req-1", testutil.Draws("req-1")[:8])
	var de *story.DrawError
	require.True(t, errors.As(err, &de))

	got, err := s.ReadDraws(ctx, "req-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveDraws_DuplicateIsIntegrityError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDraws(ctx, "req-1", testutil.Draws("req-1")))
	err := s.SaveDraws(ctx, "req-1", testutil.Draws("req-1"))
	require.True(t, IsIntegrityError(err))
	require.ErrorIs(t, err, ErrDuplicateDraws)

	got, err := s.ReadDraws(ctx, "req-1")
	require.NoError(t, err)
	assert.Len(t, got, story.DiceCount)
}

func TestSaveDraws_EmptyID(t *testing.T) {
	s := createTestStore(t)
	require.Error(t, s.SaveDraws(context.Background(), " ", testutil.Draws("")))
}

func TestSaveRequest_PendingWithEmptyAnswer(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	req := createTestRequest("req-1")
	req.Answer = "ignored"
	require.NoError(t, s.SaveRequest(ctx, req))

	got, err := s.ReadRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", got.ID)
	assert.Equal(t, story.Genre("Krimi"), got.Genre)
	assert.Equal(t, "2024-10-24_15:51:30", got.Stamp)
	assert.Equal(t, req.Prompt, got.Prompt)
	assert.False(t, got.Answered())
}

func TestSaveRequest_Duplicate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRequest(ctx, createTestRequest("req-1")))
	err := s.SaveRequest(ctx, createTestRequest("req-1"))
	require.ErrorIs(t, err, ErrDuplicateRequest)

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "save request", ie.Op)
	assert.Equal(t, "req-1", ie.RequestID)
}

func TestSaveRequest_Validation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.Error(t, s.SaveRequest(ctx, story.Request{Genre: "Krimi"}))

	req := createTestRequest("req-1")
	req.Genre = "Horror"
	require.ErrorIs(t, s.SaveRequest(ctx, req), story.ErrUnknownGenre)
}

func TestSetAnswer_ExactlyOnce(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedRequest(t, s, "req-1")

	require.NoError(t, s.SetAnswer(ctx, "req-1", "### Der Spiegel (Krimi)\nEs war..."))

	err := s.SetAnswer(ctx, "req-1", "### Zweite Antwort")
	require.True(t, IsIntegrityError(err))
	require.ErrorIs(t, err, ErrAnswerAlreadySet)

	got, err := s.ReadRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "### Der Spiegel (Krimi)\nEs war...", got.Answer)
}

func TestSetAnswer_UnknownRequest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.SetAnswer(ctx, "missing", "### Titel")
	require.ErrorIs(t, err, ErrRequestNotFound)

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, int64(0), ie.Got)
	assert.Equal(t, int64(1), ie.Want)
	assert.Contains(t, ie.Error(), "request=missing")

	n, err := s.CountRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSetAnswer_EmptyAnswer(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	seedRequest(t, s, "req-1")

	err := s.SetAnswer(ctx, "req-1", "")
	require.ErrorIs(t, err, ErrEmptyAnswer)
	assert.False(t, IsIntegrityError(err))
}
