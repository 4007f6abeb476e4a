package popularity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

func elo(v float64) *float64 { return &v }

func TestBuildGroupsByTimeControlAndBracket(t *testing.T) {
	rows := []columnar.Row{
		{TimeControl: "BLITZ", Opening: "Italian Game", AverageElo: elo(1200), ResultValue: 1},
		{TimeControl: "BLITZ", Opening: "Italian Game", AverageElo: elo(1200), ResultValue: -1},
		{TimeControl: "BLITZ", Opening: "Sicilian Defense", AverageElo: elo(1200), ResultValue: -1},
		{TimeControl: "RAPID", Opening: "Italian Game", AverageElo: elo(2200), ResultValue: 0},
	}

	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Payload)

	blitzBracket := p["blitz"]["1000-1500"]
	require.Len(t, blitzBracket, 2)

	var italian Entry
	for _, e := range blitzBracket {
		if e.Name == "Italian Game" {
			italian = e
		}
	}
	assert.Equal(t, "white", italian.Color)
	assert.Equal(t, 2, italian.Count)
	assert.InDelta(t, 0.6667, italian.Popularity, 0.001)
	assert.Equal(t, italian.WinRate[0], italian.WinRate[1])
}

func TestBuildDropsUnwhitelistedOpenings(t *testing.T) {
	rows := []columnar.Row{
		{TimeControl: "BLITZ", Opening: "Bongcloud Attack", AverageElo: elo(1200), ResultValue: 1},
	}
	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Payload)
	assert.Empty(t, p["blitz"])
}

func TestBuildIgnoresDisallowedTimeControls(t *testing.T) {
	rows := []columnar.Row{
		{TimeControl: "OTHER", Opening: "Italian Game", AverageElo: elo(1200), ResultValue: 1},
	}
	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Payload)
	assert.Empty(t, p)
}
