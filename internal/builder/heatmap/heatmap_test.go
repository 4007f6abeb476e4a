package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

func elo(v float64) *float64 { return &v }

func TestComputeOpeningAndAfterAccuracy(t *testing.T) {
	trajectory := []float64{90, 80, 70, 60}
	opening, after, ok := computeOpeningAndAfter(trajectory, 2)
	require.True(t, ok)
	assert.InDelta(t, 80, opening, 1e-9)
	assert.InDelta(t, 40, after, 1e-9)
}

func TestComputeOpeningAndAfterAccuracyInsufficientMoves(t *testing.T) {
	_, _, ok := computeOpeningAndAfter([]float64{90, 80}, 12)
	assert.False(t, ok)
}

func TestBinIndex10Boundaries(t *testing.T) {
	assert.Equal(t, 0, binIndex10(0))
	assert.Equal(t, 0, binIndex10(9.9))
	assert.Equal(t, 9, binIndex10(90))
	assert.Equal(t, 9, binIndex10(100))
}

func TestBuildProducesAllGroupAndPerOpeningGroup(t *testing.T) {
	white := `[10,20,30,40,50,60,70,80,90,100,95,90,85,80]`
	black := `[10,20,30,40,50,60,70,80,90,100,95,90,85,80]`

	rows := []columnar.Row{
		{
			TimeControl:                 "BLITZ",
			Opening:                     "Italian Game",
			AverageElo:                  elo(1200),
			ResultValue:                 1,
			AvgAccuracyPerMoveWhiteJSON: white,
			AvgAccuracyPerMoveBlackJSON: black,
		},
	}

	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Payload)

	bracket := p["blitz"]["1000-1500"]
	require.Contains(t, bracket, "Italian Game")
	require.Contains(t, bracket, allGroupName)

	italian := bracket["Italian Game"]
	total := 0.0
	for _, row := range italian.CellSamples {
		for _, c := range row {
			total += c.Combined
		}
	}
	assert.Equal(t, 2.0, total)
	assert.Equal(t, 2, italian.Samples)
}

func TestBuildPreSeedsAllFiveRatingBrackets(t *testing.T) {
	rows := []columnar.Row{
		{
			TimeControl:                 "BLITZ",
			Opening:                     "Italian Game",
			AverageElo:                  elo(1200),
			ResultValue:                 1,
			AvgAccuracyPerMoveWhiteJSON: `[10,20,30,40,50,60,70,80,90,100,95,90,85,80]`,
			AvgAccuracyPerMoveBlackJSON: `[10,20,30,40,50,60,70,80,90,100,95,90,85,80]`,
		},
	}

	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Payload)

	for _, bracket := range []string{"0-500", "500-1000", "1000-1500", "1500-2000", "2000+"} {
		require.Contains(t, p["blitz"], bracket)
		require.Contains(t, p["blitz"][bracket], allGroupName)
	}
	// brackets with no data still have an empty "All" group, and no other
	// openings.
	assert.Len(t, p["blitz"]["0-500"], 1)
}

func TestBuildAppliesMinSamplesAndMaxOpeningsPerBucket(t *testing.T) {
	traj := `[10,20,30,40,50,60,70,80,90,100,95,90,85,80]`
	rows := []columnar.Row{
		{TimeControl: "BLITZ", Opening: "Italian Game", AverageElo: elo(1200), ResultValue: 1, AvgAccuracyPerMoveWhiteJSON: traj},
		{TimeControl: "BLITZ", Opening: "Sicilian Defense", AverageElo: elo(1200), ResultValue: 1, AvgAccuracyPerMoveWhiteJSON: traj},
	}

	b := Builder{MinSamplesPerOpening: 1, MaxOpeningsPerBucket: 1}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Payload)

	bracket := p["blitz"]["1000-1500"]
	// "All" is always present, plus exactly one opening since MaxOpeningsPerBucket=1.
	assert.Len(t, bracket, 2)
	require.Contains(t, bracket, allGroupName)
}
