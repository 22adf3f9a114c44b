package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/dice"
	"github.com/roach88/storyteller/internal/document"
	"github.com/roach88/storyteller/internal/layout"
	"github.com/roach88/storyteller/internal/llm"
	"github.com/roach88/storyteller/internal/store"
	"github.com/roach88/storyteller/internal/story"
	"github.com/roach88/storyteller/internal/teller"
	"github.com/roach88/storyteller/internal/testutil"
)

// Harness holds the per-run workspace.
type Harness struct {
	root   string
	store  *store.Store
	logs   *observer.ObservedLogs
	logger *zap.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh temporary directory with its own database.
// A pipeline failure is recorded in Result.Err, not returned; the returned
// error covers harness setup only.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	root, err := os.MkdirTemp("", "storyteller-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer os.RemoveAll(root)

	h, err := newHarness(root)
	if err != nil {
		return nil, err
	}
	defer h.store.Close()

	t, err := h.teller(ctx, scenario)
	if err != nil {
		return nil, err
	}

	var genre story.Genre
	if scenario.Genre != "" {
		genre, _ = story.ParseGenre(scenario.Genre) // validated on load
	}

	result := NewResult()
	told, runErr := t.TellN(ctx, scenario.count(), genre)
	result.Err = runErr

	for _, r := range told {
		sr, err := h.collect(ctx, r)
		if err != nil {
			return nil, err
		}
		result.Stories = append(result.Stories, sr)
	}

	if err := h.countRequests(ctx, result); err != nil {
		return nil, err
	}
	result.Trace = h.trace()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

func newHarness(root string) (*Harness, error) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	if err := layout.Ensure(root, story.Genres, logger); err != nil {
		return nil, fmt.Errorf("failed to create layout: %w", err)
	}
	st, err := store.Open(filepath.Join(root, "stories.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Harness{root: root, store: st, logs: logs, logger: logger}, nil
}

// teller wires the pipeline with deterministic collaborators.
func (h *Harness) teller(ctx context.Context, s *Scenario) (*teller.Teller, error) {
	c, err := catalog.New(testutil.CatalogEntries())
	if err != nil {
		return nil, fmt.Errorf("fixture catalog: %w", err)
	}
	if err := h.store.SaveCatalog(ctx, c.Entries()); err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}

	stamp := DefaultStamp
	if s.Stamp != nil {
		stamp = *s.Stamp
	}

	var source dice.Source = dice.NewSeededSource(s.Seed)
	if s.Roll != nil {
		source = &dice.Script{Dice: s.Roll.Dice, Faces: s.Roll.Faces}
	}

	engine, err := dice.New(c,
		dice.WithSource(source),
		dice.WithIDs(testutil.NewSequenceIDs("req")),
		dice.WithClock(testutil.NewStepClock(stamp, time.Second).Now),
	)
	if err != nil {
		return nil, err
	}

	return teller.New(engine, h.store, llm.NewStub(s.Answers...),
		document.NewPublisher(layout.Stories(h.root), h.logger),
		teller.WithLogger(h.logger),
		teller.WithGenrePicker(cycleGenres()),
	)
}

// cycleGenres returns a picker that walks story.Genres in order.
func cycleGenres() teller.GenrePicker {
	next := 0
	return func() story.Genre {
		g := story.Genres[next%len(story.Genres)]
		next++
		return g
	}
}

// collect reads back what a finished story left on disk and in the store.
func (h *Harness) collect(ctx context.Context, r teller.Result) (StoryResult, error) {
	content, err := os.ReadFile(r.Path)
	if err != nil {
		return StoryResult{}, fmt.Errorf("read document: %w", err)
	}
	draws, err := h.store.ReadDraws(ctx, r.RequestID)
	if err != nil {
		return StoryResult{}, err
	}

	name := filepath.Base(r.Path)
	linked, err := os.ReadFile(filepath.Join(layout.Genre(layout.Stories(h.root), r.Genre), name))

	return StoryResult{
		RequestID: r.RequestID,
		Title:     r.Title,
		Name:      name,
		Content:   string(content),
		LinkOK:    err == nil && string(linked) == string(content),
		Draws:     draws,
	}, nil
}

func (h *Harness) countRequests(ctx context.Context, result *Result) error {
	reqs, err := h.store.ListRequests(ctx, 0)
	if err != nil {
		return err
	}
	result.Requests = int64(len(reqs))
	for _, r := range reqs {
		if r.Answered() {
			result.Answered++
		}
	}
	return nil
}

// trace converts the captured log into trace events.
func (h *Harness) trace() []TraceEvent {
	entries := h.logs.All()
	events := make([]TraceEvent, 0, len(entries))
	for _, e := range entries {
		ev := TraceEvent{Message: e.Message}
		if id, ok := e.ContextMap()["request_id"].(string); ok {
			ev.RequestID = id
		}
		events = append(events, ev)
	}
	return events
}
