package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_KrimiSpiegel(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/krimi_spiegel.yaml")
	require.NoError(t, err)

	require.NoError(t, RunWithGolden(t, scenario))
}

func TestAssertGolden_NoStories(t *testing.T) {
	err := AssertGolden(t, "empty", NewResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no document")
}
