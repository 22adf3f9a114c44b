package llm

import (
	"context"
	"fmt"
	"sync"
)

// Stub is a Client that replays canned answers in order.
// Once the answers are used up, Generate returns Err if set, else
// ErrEmptyResponse.
type Stub struct {
	Answers []string
	Err     error

	mu      sync.Mutex
	prompts []string
}

// NewStub returns a Stub that answers with answers in order.
func NewStub(answers ...string) *Stub {
	return &Stub{Answers: answers}
}

// Generate records prompt and returns the next canned answer.
func (s *Stub) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	n := len(s.prompts)
	if n > len(s.Answers) {
		if s.Err != nil {
			return "", s.Err
		}
		return "", fmt.Errorf("stub: call %d: %w", n, ErrEmptyResponse)
	}
	return s.Answers[n-1], nil
}

// Prompts returns the prompts received so far.
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
