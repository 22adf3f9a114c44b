package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/story"
)

// HasCatalog reports whether a catalog snapshot is stored.
func (s *Store) HasCatalog(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM dices`); err != nil {
		return false, fmt.Errorf("has catalog: %w", err)
	}
	return n > 0, nil
}

// LoadCatalog returns the stored catalog snapshot ordered by die, face.
// Returns an empty slice (not nil) if no snapshot is stored.
func (s *Store) LoadCatalog(ctx context.Context) ([]catalog.Entry, error) {
	entries := []catalog.Entry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT "group", dice, side, word, jpg
		FROM dices
		ORDER BY dice ASC, side ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return entries, nil
}

// ReadDraws returns the draws of a request in draw order.
// Returns an empty slice (not nil) if the request has no draws.
func (s *Store) ReadDraws(ctx context.Context, requestID string) ([]story.Draw, error) {
	draws := []story.Draw{}
	err := s.db.SelectContext(ctx, &draws, `
		SELECT request_id, position, dice, side, word, jpg
		FROM dicing_done
		WHERE request_id = ?
		ORDER BY position ASC
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("read draws: %w", err)
	}
	return draws, nil
}

// ReadRequest retrieves a single request by ID.
// Returns an error wrapping ErrRequestNotFound if it does not exist.
func (s *Store) ReadRequest(ctx context.Context, id string) (story.Request, error) {
	var req story.Request
	err := s.db.GetContext(ctx, &req, `
		SELECT id, stamp, genre, request, answer
		FROM requests
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return story.Request{}, fmt.Errorf("read request %s: %w", id, ErrRequestNotFound)
	}
	if err != nil {
		return story.Request{}, fmt.Errorf("read request %s: %w", id, err)
	}
	return req, nil
}

// ListRequests returns up to limit requests, newest first.
// A limit <= 0 returns all requests.
func (s *Store) ListRequests(ctx context.Context, limit int) ([]story.Request, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	reqs := []story.Request{}
	err := s.db.SelectContext(ctx, &reqs, `
		SELECT id, stamp, genre, request, answer
		FROM requests
		ORDER BY stamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

// CountRequests returns the number of stored requests.
func (s *Store) CountRequests(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM requests`); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}
