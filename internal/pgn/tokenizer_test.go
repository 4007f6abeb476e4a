package pgn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMovesWithEval(t *testing.T) {
	flat := `1. e4 { [%eval 0.3] } e5 { [%eval 0.1] } 2. Nf3 { [%eval 0.2] } 1-0`

	moves := extractMoves(flat)

	assert.Len(t, moves, 3)
	assert.Equal(t, "e4", moves[0].San)
	assert.Equal(t, "e5", moves[1].San)
	assert.Equal(t, "Nf3", moves[2].San)

	assert.InDelta(t, 0.3, *moves[0].Eval, 1e-9)
	assert.InDelta(t, 0.1, *moves[1].Eval, 1e-9)
	assert.InDelta(t, 0.2, *moves[2].Eval, 1e-9)
}

func TestExtractMovesDropsCommentBeforeAnyMove(t *testing.T) {
	flat := `{ [%eval 0.0] } 1. e4 1-0`
	moves := extractMoves(flat)

	assert.Len(t, moves, 1)
	assert.Nil(t, moves[0].Eval)
}

func TestExtractMovesSkipsMateScores(t *testing.T) {
	flat := `1. Qh5+ { [%eval #3] } Kd7 1-0`
	moves := extractMoves(flat)

	assert.Len(t, moves, 2)
	assert.Nil(t, moves[0].Eval)
}

func TestExtractMovesUnterminatedCommentTruncates(t *testing.T) {
	flat := `1. e4 { this comment never ends`
	moves := extractMoves(flat)

	assert.Len(t, moves, 1)
	assert.Equal(t, "e4", moves[0].San)
}

func TestSplitAnnotationLongestFirst(t *testing.T) {
	san, tag := splitAnnotation("Qxf7??")
	assert.Equal(t, "Qxf7", san)
	assert.Equal(t, "??", tag)

	san, tag = splitAnnotation("Nf3")
	assert.Equal(t, "Nf3", san)
	assert.Equal(t, "", tag)
}

func TestIsSkippableToken(t *testing.T) {
	assert.True(t, isSkippableToken("1-0"))
	assert.True(t, isSkippableToken("1/2-1/2"))
	assert.True(t, isSkippableToken("1."))
	assert.True(t, isSkippableToken("12..."))
	assert.True(t, isSkippableToken("$14"))
	assert.False(t, isSkippableToken("Nf3"))
}
