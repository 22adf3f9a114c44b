package dice

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/story"
)

// ErrBadSource is returned when the Source yields an invalid permutation or face.
var ErrBadSource = errors.New("random source produced invalid value")

// Engine rolls the story cubes against a catalog.
type Engine struct {
	catalog *catalog.Catalog
	source  Source
	ids     IDGenerator
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the random source.
func WithSource(src Source) Option {
	return func(e *Engine) { e.source = src }
}

// WithIDs sets the request ID generator.
func WithIDs(ids IDGenerator) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithClock sets the wall clock used for the roll stamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. Without options it uses a crypto-seeded source,
// UUIDv7 request IDs and the system clock.
func New(c *catalog.Catalog, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, errors.New("dice: catalog is required")
	}
	e := &Engine{
		catalog: c,
		ids:     UUIDv7Generator{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		src, err := NewRandomSource()
		if err != nil {
			return nil, fmt.Errorf("dice: %w", err)
		}
		e.source = src
	}
	return e, nil
}

// Roll throws all dice once and returns the draws in draw order, tagged with
// a fresh request ID. The stamp has one-second resolution.
func (e *Engine) Roll() (story.Roll, error) {
	order := e.source.Perm(story.DiceCount)
	if err := checkPerm(order); err != nil {
		return story.Roll{}, err
	}

	roll := story.Roll{
		ID:    e.ids.Generate(),
		Stamp: e.now().Truncate(time.Second),
		Draws: make([]story.Draw, 0, story.DiceCount),
	}

	for pos, idx := range order {
		die := idx + 1
		f := e.source.IntN(story.FaceCount)
		if f < 0 || f >= story.FaceCount {
			return story.Roll{}, fmt.Errorf("%w: face index %d for die %d", ErrBadSource, f, die)
		}
		face := f + 1

		entry, ok := e.catalog.Lookup(die, face)
		if !ok {
			return story.Roll{}, fmt.Errorf("%w: no entry for die %d face %d", catalog.ErrIncomplete, die, face)
		}
		roll.Draws = append(roll.Draws, entry.Draw(roll.ID, pos))
	}

	return roll, nil
}

// checkPerm verifies order is a permutation of [0, DiceCount).
func checkPerm(order []int) error {
	if len(order) != story.DiceCount {
		return fmt.Errorf("%w: permutation of length %d", ErrBadSource, len(order))
	}
	seen := make([]bool, story.DiceCount)
	for _, idx := range order {
		if idx < 0 || idx >= story.DiceCount || seen[idx] {
			return fmt.Errorf("%w: %v is not a permutation", ErrBadSource, order)
		}
		seen[idx] = true
	}
	return nil
}
