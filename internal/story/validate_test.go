package story

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeDraws() []Draw {
	draws := make([]Draw, DiceCount)
	for i := range draws {
		draws[i] = Draw{Position: i, Die: DiceCount - i, Face: i%FaceCount + 1}
	}
	return draws
}

func TestValidateDraws_Complete(t *testing.T) {
	require.NoError(t, ValidateDraws(completeDraws()))
}

func TestValidateDraws_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]Draw) []Draw
		wantPos int
	}{
		{"too few", func(d []Draw) []Draw { return d[:8] }, -1},
		{"too many", func(d []Draw) []Draw { return append(d, Draw{Die: 1, Face: 1}) }, -1},
		{"die zero", func(d []Draw) []Draw { d[2].Die = 0; return d }, 2},
		{"die ten", func(d []Draw) []Draw { d[4].Die = 10; return d }, 4},
		{"face zero", func(d []Draw) []Draw { d[0].Face = 0; return d }, 0},
		{"face seven", func(d []Draw) []Draw { d[8].Face = 7; return d }, 8},
		{"duplicate die", func(d []Draw) []Draw { d[5].Die = d[1].Die; return d }, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraws(tt.mutate(completeDraws()))
			require.Error(t, err)
			var de *DrawError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantPos, de.Position)
		})
	}
}

func TestRoll_StampString(t *testing.T) {
	r := Roll{Stamp: time.Date(2024, 10, 24, 15, 51, 30, 999, time.UTC)}
	assert.Equal(t, "2024-10-24_15:51:30", r.StampString())
}

func TestRequest_Answered(t *testing.T) {
	assert.False(t, Request{}.Answered())
	assert.True(t, Request{Answer: "### Titel"}.Answered())
}
