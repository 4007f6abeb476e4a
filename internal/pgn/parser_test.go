package pgn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(tags map[string]string, movetext string) Record {
	tm := NewTagMap()
	for _, k := range []string{
		"Event", "Site", "Date", "UTCDate", "UTCTime", "Round", "White", "Black",
		"Result", "WhiteElo", "BlackElo", "TimeControl", "Variant", "ECO", "Opening",
	} {
		if v, ok := tags[k]; ok {
			tm.Set(k, v)
		}
	}
	return Record{Tags: tm, MovetextFlat: movetext, MovetextRaw: movetext}
}

func TestParseSeedScenarioOne(t *testing.T) {
	rec := newTestRecord(map[string]string{
		"Result":      "1-0",
		"Variant":     "Standard",
		"UTCDate":     "2013.01.01",
		"UTCTime":     "12:00:00",
		"TimeControl": "300+3",
	}, `1. e4 { [%eval 0.3] } e5 { [%eval 0.1] } 2. Nf3 { [%eval 0.2] } 1-0`)

	game, ok := Parse(rec)
	require.True(t, ok)

	assert.Equal(t, Blitz, game.Header.TimeControlBucket)
	assert.True(t, game.Header.HasEval)
	assert.Equal(t, 1, game.Header.ResultValue)
	// White's e4 (0.3) and Nf3 (0.2) give one cp-loss of 10, so one entry.
	assert.Equal(t, []float64{90.48}, game.Accuracy.AvgAccuracyPerMoveWhite)
	assert.Empty(t, game.Accuracy.AvgAccuracyPerMoveBlack)

	wantSAN := []string{"e4", "e5", "Nf3"}
	require.Len(t, game.Moves, len(wantSAN))
	for i, san := range wantSAN {
		assert.Equal(t, san, game.Moves[i].San)
	}
}

func TestParseFiltersNonStandardVariant(t *testing.T) {
	rec := newTestRecord(map[string]string{
		"Result":      "1-0",
		"Variant":     "Chess960",
		"UTCDate":     "2013.01.01",
		"UTCTime":     "12:00:00",
		"TimeControl": "300+0",
	}, "1. e4 1-0")

	_, ok := Parse(rec)
	assert.False(t, ok)
}

func TestParseFiltersMissingDate(t *testing.T) {
	rec := newTestRecord(map[string]string{
		"Result":      "1-0",
		"Variant":     "Standard",
		"UTCDate":     "????.??.??",
		"TimeControl": "300+0",
	}, "1. e4 1-0")

	_, ok := Parse(rec)
	assert.False(t, ok)
}

func TestParseFiltersUnknownResult(t *testing.T) {
	rec := newTestRecord(map[string]string{
		"Result":      "*",
		"Variant":     "Standard",
		"UTCDate":     "2013.01.01",
		"TimeControl": "300+0",
	}, "1. e4 *")

	_, ok := Parse(rec)
	assert.False(t, ok)
}

func TestTimeControlBucketBoundaries(t *testing.T) {
	cases := map[string]TimeControlBucket{
		"180+0": Blitz,
		"179+0": Bullet,
		"60+0":  Bullet,
		"900+10": Rapid,
	}
	for raw, want := range cases {
		assert.Equal(t, want, TimeControlBucketOf(raw), raw)
	}
}

func TestAverageElo(t *testing.T) {
	w, b := 2000, 1800
	avg := averageElo(&w, &b)
	require.NotNil(t, avg)
	assert.InDelta(t, 1900, *avg, 1e-9)

	avg = averageElo(&w, nil)
	require.NotNil(t, avg)
	assert.InDelta(t, 2000, *avg, 1e-9)

	assert.Nil(t, averageElo(nil, nil))
}
