package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/storyteller/internal/teller"
)

func TestRun_Testdata(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, f := range files {
		scenario, err := LoadScenario(f)
		require.NoError(t, err)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ScriptedRoll(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/krimi_spiegel.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NoError(t, result.Err)
	require.Len(t, result.Stories, 1)

	s := result.Stories[0]
	assert.Equal(t, "req-0001", s.RequestID)
	assert.Equal(t, "Der Spiegel", s.Title)
	assert.Equal(t, "2024-10-24_15-51-30 (Krimi) Der Spiegel.md", s.Name)
	assert.True(t, s.LinkOK)
	require.Len(t, s.Draws, 9)
	assert.Equal(t, "Feuer", s.Draws[0].Token)
	assert.Equal(t, "Fluss", s.Draws[8].Token)
	assert.True(t, strings.HasPrefix(s.Content, "# Der Spiegel\n2024-10-24_15:51:30 - **Krimi**\n"))
}

func TestRun_CyclesGenres(t *testing.T) {
	n := 2
	scenario := &Scenario{
		Name:        "cycle",
		Description: "no genre",
		Count:       &n,
		Seed:        11,
		Answers:     []string{"### A\nx", "### B\ny"},
		Assertions:  []Assertion{{Type: AssertNoError}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Stories, 2)

	assert.Contains(t, result.Stories[0].Name, "(Action) A.md")
	assert.Contains(t, result.Stories[1].Name, "(Abenteuer) B.md")
	assert.Equal(t, "req-0002", result.Stories[1].RequestID)
}

func TestRun_TraceCarriesRequestID(t *testing.T) {
	scenario := &Scenario{
		Name:        "trace",
		Description: "trace ids",
		Genre:       "Satire",
		Seed:        5,
		Answers:     []string{"### T\nx"},
		Assertions:  []Assertion{{Type: AssertNoError}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	var rolled []TraceEvent
	for _, ev := range result.Trace {
		if ev.Message == "dice rolled" {
			rolled = append(rolled, ev)
		}
	}
	require.Len(t, rolled, 1)
	assert.Equal(t, "req-0001", rolled[0].RequestID)
}

func TestRun_CountOutOfRange(t *testing.T) {
	n := 0
	scenario := &Scenario{
		Name:        "zero",
		Description: "zero stories",
		Count:       &n,
		Assertions:  []Assertion{{Type: AssertRequestCount, Count: 0}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.ErrorIs(t, result.Err, teller.ErrCount)
	assert.True(t, result.Pass)
	assert.Empty(t, result.Stories)
}

func TestRun_FailedAssertionMarksResult(t *testing.T) {
	scenario := &Scenario{
		Name:        "fail",
		Description: "wrong title",
		Genre:       "Krimi",
		Seed:        2,
		Answers:     []string{"### Richtig\nx"},
		Assertions:  []Assertion{{Type: AssertTitle, Value: "Falsch"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `"Falsch"`)
}
