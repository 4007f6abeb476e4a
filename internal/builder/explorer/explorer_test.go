package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

func elo(v float64) *float64 { return &v }

func movesJSON(sans ...string) string {
	out := "["
	for i, s := range sans {
		if i > 0 {
			out += ","
		}
		out += `{"move":"` + s + `","eval":null}`
	}
	return out + "]"
}

func TestBuildTopLevelBranching(t *testing.T) {
	rows := []columnar.Row{
		{TimeControl: "BLITZ", AverageElo: elo(1200), Opening: "Italian Game", ResultValue: 1, MovesJSON: movesJSON("e4", "e5", "Bc4")},
		{TimeControl: "BLITZ", AverageElo: elo(1200), Opening: "Sicilian Defense", ResultValue: -1, MovesJSON: movesJSON("e4", "c5")},
		{TimeControl: "BLITZ", AverageElo: elo(1200), Opening: "French Defense", ResultValue: 0, MovesJSON: movesJSON("d4", "e6")},
	}

	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Wrapped)["opening_explorer"]

	nodes := p["blitz"]["1000-1500"]
	require.Len(t, nodes, 2)

	var e4Node *Node
	for _, n := range nodes {
		if n.Move == "e4" {
			e4Node = n
		}
	}
	require.NotNil(t, e4Node)
	assert.Equal(t, 2, e4Node.Count)
	require.Len(t, e4Node.Children, 2)
}

func TestBuildStopsAtMaxDepth(t *testing.T) {
	rows := []columnar.Row{
		{TimeControl: "BLITZ", AverageElo: elo(1200), Opening: "Italian Game", ResultValue: 1, MovesJSON: movesJSON("e4", "e5", "Bc4")},
	}
	b := Builder{MaxDepth: 1}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Wrapped)["opening_explorer"]
	nodes := p["blitz"]["1000-1500"]
	require.Len(t, nodes, 1)
	assert.Empty(t, nodes[0].Children)
}

func TestRatingBracket4HasNoZeroFiveHundredBucket(t *testing.T) {
	rows := []columnar.Row{
		{TimeControl: "BLITZ", AverageElo: elo(200), Opening: "Italian Game", ResultValue: 1, MovesJSON: movesJSON("e4")},
	}
	b := Builder{}
	payload, err := b.Build(rows)
	require.NoError(t, err)
	p := payload.(Wrapped)["opening_explorer"]
	_, has0to500 := p["blitz"]["0-500"]
	assert.False(t, has0to500)
	assert.Contains(t, p["blitz"], "500-1000")
}
