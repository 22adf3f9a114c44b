// Package llm sends compiled prompts to a language model and returns the
// generated story text.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the backend answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client generates text for a prompt.
//
// A Client makes exactly one attempt per call. Failures are returned to the
// caller unchanged; there is no retry.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
