package store

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by IntegrityError.
var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrDuplicateRequest = errors.New("request already exists")
	ErrDuplicateDraws   = errors.New("draws already recorded for request")
	ErrAnswerAlreadySet = errors.New("answer already set")
)

// ErrEmptyAnswer is returned when SetAnswer is called with an empty answer.
var ErrEmptyAnswer = errors.New("answer is empty")

// IntegrityError reports a write whose row count broke an invariant.
// The write was rolled back; nothing was applied.
type IntegrityError struct {
	// Op is the store operation, e.g. "save draws".
	Op string

	// RequestID identifies the affected request, if any.
	RequestID string

	// Want and Got are the expected and observed row counts.
	Want, Got int64

	// Err is the sentinel cause, if one applies.
	Err error
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("integrity: %s", e.Op)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request=%s)", e.RequestID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + fmt.Sprintf(" [%d rows affected, want %d]", e.Got, e.Want)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// IsIntegrityError returns true if err is or wraps an *IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
