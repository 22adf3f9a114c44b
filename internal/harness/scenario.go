package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/storyteller/internal/story"
)

// Scenario defines one end-to-end pipeline run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Genre of every story. Empty cycles through story.Genres in order.
	Genre string `yaml:"genre,omitempty"`

	// Count is the number of stories requested. Zero means 1.
	// Out-of-range values are passed through to exercise validation.
	Count *int `yaml:"count,omitempty"`

	// Roll scripts the dice of a single story. Mutually exclusive with Seed.
	Roll *RollScript `yaml:"roll,omitempty"`

	// Seed seeds the PCG source when no roll is scripted.
	Seed uint64 `yaml:"seed,omitempty"`

	// Stamp is the wall clock of the first roll; later rolls add one second.
	// Defaults to 2024-10-24T15:51:30Z.
	Stamp *time.Time `yaml:"stamp,omitempty"`

	// Answers are returned by the stub model, one per story.
	// Running out of answers fails the story.
	Answers []string `yaml:"answers"`

	// Assertions validate the outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// RollScript lists die identities in draw order and the face of each position.
type RollScript struct {
	Dice  []int `yaml:"dice"`
	Faces []int `yaml:"faces"`
}

// Assertion validates one aspect of the outcome.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Story indexes Result.Stories (default 0).
	Story int `yaml:"story,omitempty"`

	// Value is the expected text (title, file_name_contains, error_contains).
	Value string `yaml:"value,omitempty"`

	// Count is the expected number (thema_headers, request_count,
	// answered_count, story_count, trace_count).
	Count int `yaml:"count,omitempty"`

	// Action is a log message (trace_count).
	Action string `yaml:"action,omitempty"`

	// Actions are log messages in expected order (trace_order).
	Actions []string `yaml:"actions,omitempty"`
}

// Assertion type constants.
const (
	AssertTitle            = "title"
	AssertFileNameContains = "file_name_contains"
	AssertThemaHeaders     = "thema_headers"
	AssertTokensOnce       = "tokens_once"
	AssertRequestCount     = "request_count"
	AssertAnsweredCount    = "answered_count"
	AssertStoryCount       = "story_count"
	AssertErrorContains    = "error_contains"
	AssertNoError          = "no_error"
	AssertTraceOrder       = "trace_order"
	AssertTraceCount       = "trace_count"
)

// DefaultStamp is the first roll time when a scenario sets none.
var DefaultStamp = time.Date(2024, 10, 24, 15, 51, 30, 0, time.UTC)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// count returns the requested number of stories.
func (s *Scenario) count() int {
	if s.Count == nil {
		return 1
	}
	return *s.Count
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if len(s.Assertions) == 0 {
		return errors.New("assertions list is required and must be non-empty")
	}

	if s.Genre != "" {
		if _, err := story.ParseGenre(s.Genre); err != nil {
			return fmt.Errorf("genre: %w", err)
		}
	}

	if s.Roll != nil {
		if s.Seed != 0 {
			return errors.New("roll and seed are mutually exclusive")
		}
		if len(s.Roll.Dice) != story.DiceCount || len(s.Roll.Faces) != story.DiceCount {
			return fmt.Errorf("roll: want %d dice and %d faces", story.DiceCount, story.DiceCount)
		}
		if s.count() > 1 {
			return errors.New("roll scripts a single story; use seed for batches")
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Story < 0 {
		return fmt.Errorf("assertions[%d]: story must be non-negative", index)
	}
	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	switch a.Type {
	case AssertTitle, AssertFileNameContains, AssertErrorContains:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
	case AssertThemaHeaders, AssertTokensOnce, AssertRequestCount,
		AssertAnsweredCount, AssertStoryCount, AssertNoError:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
