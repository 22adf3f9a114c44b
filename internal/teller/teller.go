// Package teller drives the story pipeline:
//
//	roll -> compile prompt -> save draws and request -> generate -> save answer -> publish
//
// Stories are told strictly one after another. A failing step ends the
// current story and the batch; rows already written stay in the store.
package teller

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/roach88/storyteller/internal/document"
	"github.com/roach88/storyteller/internal/llm"
	"github.com/roach88/storyteller/internal/prompt"
	"github.com/roach88/storyteller/internal/store"
	"github.com/roach88/storyteller/internal/story"
)

// Batch size limits for TellN.
const (
	MinCount = 1
	MaxCount = 10
)

// ErrCount is returned when a batch size is outside [MinCount, MaxCount].
var ErrCount = fmt.Errorf("number of stories must be between %d and %d", MinCount, MaxCount)

// Roller produces a fresh roll. *dice.Engine implements it.
type Roller interface {
	Roll() (story.Roll, error)
}

// GenrePicker chooses the genre of a story when none is requested.
type GenrePicker func() story.Genre

// RandomGenre picks uniformly from story.Genres.
func RandomGenre() story.Genre {
	return story.Genres[rand.IntN(len(story.Genres))]
}

// Result describes one finished story.
type Result struct {
	RequestID string      `json:"request_id"`
	Stamp     string      `json:"stamp"`
	Genre     story.Genre `json:"genre"`
	Title     string      `json:"title"`
	Path      string      `json:"path"`
}

// Teller runs the pipeline.
type Teller struct {
	roller    Roller
	store     *store.Store
	client    llm.Client
	publisher *document.Publisher
	render    prompt.Renderer
	pick      GenrePicker
	logger    *zap.Logger
}

// Option configures a Teller.
type Option func(*Teller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Teller) { t.logger = l }
}

// WithRenderer replaces the German prompt template.
func WithRenderer(r prompt.Renderer) Option {
	return func(t *Teller) { t.render = r }
}

// WithGenrePicker replaces RandomGenre.
func WithGenrePicker(p GenrePicker) Option {
	return func(t *Teller) { t.pick = p }
}

// New creates a Teller. All collaborators are required.
func New(roller Roller, st *store.Store, client llm.Client, pub *document.Publisher, opts ...Option) (*Teller, error) {
	if roller == nil || st == nil || client == nil || pub == nil {
		return nil, errors.New("teller: roller, store, client and publisher are required")
	}
	t := &Teller{
		roller:    roller,
		store:     st,
		client:    client,
		publisher: pub,
		render:    prompt.German,
		pick:      RandomGenre,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Tell runs the pipeline once. An empty genre is chosen by the picker.
func (t *Teller) Tell(ctx context.Context, genre story.Genre) (Result, error) {
	if genre == "" {
		genre = t.pick()
	}
	if !genre.Valid() {
		return Result{}, fmt.Errorf("tell: %w: %q", story.ErrUnknownGenre, genre)
	}

	roll, err := t.roller.Roll()
	if err != nil {
		return Result{}, fmt.Errorf("tell: roll: %w", err)
	}
	log := t.logger.With(zap.String("request_id", roll.ID), zap.String("genre", genre.String()))
	log.Info("dice rolled", zap.String("stamp", roll.StampString()))

	text, err := prompt.CompileWith(t.render, roll.Draws, genre)
	if err != nil {
		return Result{}, fmt.Errorf("tell: compile: %w", err)
	}

	if err := t.store.SaveDraws(ctx, roll.ID, roll.Draws); err != nil {
		return Result{}, fmt.Errorf("tell: %w", err)
	}
	req := story.Request{
		ID:     roll.ID,
		Stamp:  roll.StampString(),
		Genre:  genre,
		Prompt: text,
	}
	if err := t.store.SaveRequest(ctx, req); err != nil {
		return Result{}, fmt.Errorf("tell: %w", err)
	}
	log.Info("request stored")

	answer, err := t.client.Generate(ctx, text)
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return Result{}, fmt.Errorf("tell %s: generate: %w", roll.ID, err)
	}
	log.Info("answer received", zap.Int("bytes", len(answer)))

	if err := t.store.SetAnswer(ctx, roll.ID, answer); err != nil {
		return Result{}, fmt.Errorf("tell: %w", err)
	}
	req.Answer = answer

	path, err := t.publisher.Materialize(document.Story{Request: req, Draws: roll.Draws})
	if err != nil {
		return Result{}, fmt.Errorf("tell %s: publish: %w", roll.ID, err)
	}
	log.Info("story published", zap.String("path", path))

	return Result{
		RequestID: roll.ID,
		Stamp:     req.Stamp,
		Genre:     genre,
		Title:     document.Title(answer),
		Path:      path,
	}, nil
}

// TellN tells n stories one after another. It stops at the first failure
// and returns the stories completed so far with the error.
func (t *Teller) TellN(ctx context.Context, n int, genre story.Genre) ([]Result, error) {
	if n < MinCount || n > MaxCount {
		return nil, fmt.Errorf("%w: got %d", ErrCount, n)
	}

	t.logger.Info("telling stories", zap.Int("count", n))
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("story %d of %d: %w", i+1, n, err)
		}
		res, err := t.Tell(ctx, genre)
		if err != nil {
			t.logger.Error("story failed", zap.Int("story", i+1), zap.Int("completed", len(results)), zap.Error(err))
			return results, fmt.Errorf("story %d of %d: %w", i+1, n, err)
		}
		results = append(results, res)
	}
	t.logger.Info("stories told", zap.Int("count", len(results)))
	return results, nil
}
