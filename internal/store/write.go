package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/story"
)

const insertEntry = `
	INSERT INTO dices ("group", dice, side, word, jpg)
	VALUES (:group, :dice, :side, :word, :jpg)
`

const insertDraw = `
	INSERT INTO dicing_done (request_id, position, dice, side, word, jpg)
	VALUES (:request_id, :position, :dice, :side, :word, :jpg)
`

const insertRequest = `
	INSERT INTO requests (id, stamp, genre, request, answer)
	VALUES (:id, :stamp, :genre, :request, '')
`

// SaveCatalog replaces the catalog snapshot wholesale.
// Idempotent: saving the same entries twice leaves the same table.
func (s *Store) SaveCatalog(ctx context.Context, entries []catalog.Entry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save catalog: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM dices`); err != nil {
		return fmt.Errorf("save catalog: clear: %w", err)
	}

	n, err := namedInsert(ctx, tx, insertEntry, len(entries), func(i int) any { return entries[i] })
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	if n != int64(len(entries)) {
		return &IntegrityError{Op: "save catalog", Want: int64(len(entries)), Got: n}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save catalog: commit: %w", err)
	}
	return nil
}

// SaveDraws appends the nine draws of one roll.
//
// The draws must form a complete roll (see story.ValidateDraws). The batch is
// all-or-nothing: if the request already has draws, or fewer than nine rows
// were written, the transaction is rolled back and *IntegrityError returned.
func (s *Store) SaveDraws(ctx context.Context, requestID string, draws []story.Draw) error {
	if strings.TrimSpace(requestID) == "" {
		return fmt.Errorf("save draws: request id is empty")
	}
	if err := story.ValidateDraws(draws); err != nil {
		return fmt.Errorf("save draws: %w", err)
	}

	rows := make([]story.Draw, len(draws))
	for i, d := range draws {
		d.RequestID = requestID
		d.Position = i
		rows[i] = d
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save draws: begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM dicing_done WHERE request_id = ?`, requestID); err != nil {
		return fmt.Errorf("save draws: count existing: %w", err)
	}
	if existing > 0 {
		return &IntegrityError{Op: "save draws", RequestID: requestID, Want: story.DiceCount, Got: 0, Err: ErrDuplicateDraws}
	}

	n, err := namedInsert(ctx, tx, insertDraw, len(rows), func(i int) any { return rows[i] })
	if err != nil {
		return fmt.Errorf("save draws: %w", err)
	}
	if n != story.DiceCount {
		return &IntegrityError{Op: "save draws", RequestID: requestID, Want: story.DiceCount, Got: n}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save draws: commit: %w", err)
	}
	return nil
}

// SaveRequest inserts a request with an empty answer.
// Exactly one row must be written; an existing ID is an *IntegrityError.
func (s *Store) SaveRequest(ctx context.Context, req story.Request) error {
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("save request: id is empty")
	}
	if !req.Genre.Valid() {
		return fmt.Errorf("save request: %w: %q", story.ErrUnknownGenre, req.Genre)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save request: begin tx: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM requests WHERE id = ?`, req.ID); err != nil {
		return fmt.Errorf("save request: count existing: %w", err)
	}
	if existing > 0 {
		return &IntegrityError{Op: "save request", RequestID: req.ID, Want: 1, Got: 0, Err: ErrDuplicateRequest}
	}

	res, err := tx.NamedExecContext(ctx, insertRequest, req)
	if err != nil {
		return fmt.Errorf("save request: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save request: rows affected: %w", err)
	}
	if n != 1 {
		return &IntegrityError{Op: "save request", RequestID: req.ID, Want: 1, Got: n}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save request: commit: %w", err)
	}
	return nil
}

// SetAnswer stores the model's answer for a pending request.
//
// The update only matches a request whose answer is still empty, so it
// succeeds exactly once per request. Zero or more than one affected row is
// rolled back and reported as *IntegrityError wrapping ErrRequestNotFound or
// ErrAnswerAlreadySet.
func (s *Store) SetAnswer(ctx context.Context, requestID, answer string) error {
	if answer == "" {
		return fmt.Errorf("set answer: %w", ErrEmptyAnswer)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set answer: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE requests SET answer = ? WHERE id = ? AND answer = ''`, answer, requestID)
	if err != nil {
		return fmt.Errorf("set answer: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set answer: rows affected: %w", err)
	}

	if n != 1 {
		ierr := &IntegrityError{Op: "set answer", RequestID: requestID, Want: 1, Got: n}
		if n == 0 {
			var count int64
			if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM requests WHERE id = ?`, requestID); err != nil {
				return fmt.Errorf("set answer: count: %w", err)
			}
			ierr.Err = ErrRequestNotFound
			if count > 0 {
				ierr.Err = ErrAnswerAlreadySet
			}
		}
		return ierr
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set answer: commit: %w", err)
	}
	return nil
}

// namedInsert runs query once per row and returns the total rows affected.
func namedInsert(ctx context.Context, tx *sqlx.Tx, query string, count int, row func(int) any) (int64, error) {
	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var total int64
	for i := 0; i < count; i++ {
		res, err := stmt.ExecContext(ctx, row(i))
		if err != nil {
			return total, fmt.Errorf("insert row %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		total += n
	}
	return total, nil
}
