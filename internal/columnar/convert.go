package columnar

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kyleboon/chessarchive/internal/pgn"
)

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func yearFromUTCDate(utcDate string) *int32 {
	parts := strings.SplitN(utcDate, ".", 2)
	if len(parts) == 0 {
		return nil
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	v := int32(y)
	return &v
}

func intToInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	r := int32(*v)
	return &r
}

// RowFromGame flattens a ParsedGame into a Row ready for export.
func RowFromGame(g pgn.ParsedGame) Row {
	h := g.Header
	return Row{
		Event:          h.Event,
		Site:           h.Site,
		UTCDate:        h.UTCDate,
		Year:           yearFromUTCDate(h.UTCDate),
		TimeControlRaw: h.TimeControlRaw,
		TimeControl:    string(h.TimeControlBucket),
		WhiteElo:       intToInt32(h.WhiteElo),
		BlackElo:       intToInt32(h.BlackElo),
		AverageElo:     h.AverageElo,
		ResultRaw:      h.ResultRaw,
		ResultValue:    int8(h.ResultValue),
		ECO:            h.ECO,
		Opening:        h.Opening,
		HasEval:        h.HasEval,

		AverageAccuracy:             g.Accuracy.AverageAccuracy,
		AverageAccuracyPerMoveJSON:  jsonString(g.Accuracy.AverageAccuracyPerMove),
		AvgAccuracyWhite:            g.Accuracy.AvgAccuracyWhite,
		AvgAccuracyBlack:            g.Accuracy.AvgAccuracyBlack,
		AvgAccuracyPerMoveWhiteJSON: jsonString(g.Accuracy.AvgAccuracyPerMoveWhite),
		AvgAccuracyPerMoveBlackJSON: jsonString(g.Accuracy.AvgAccuracyPerMoveBlack),

		MovesJSON:  jsonString(g.Moves),
		PGNSource:  g.PGNSource,
		SourceFile: g.SourceFile,
	}
}

// GameFromRow rehydrates a ParsedGame from a loaded Row, decoding the
// JSON-string columns.
func GameFromRow(r Row) pgn.ParsedGame {
	var moves []pgn.Move
	_ = json.Unmarshal([]byte(r.MovesJSON), &moves)

	var accAll, accWhite, accBlack []float64
	_ = json.Unmarshal([]byte(r.AverageAccuracyPerMoveJSON), &accAll)
	_ = json.Unmarshal([]byte(r.AvgAccuracyPerMoveWhiteJSON), &accWhite)
	_ = json.Unmarshal([]byte(r.AvgAccuracyPerMoveBlackJSON), &accBlack)

	var whiteElo, blackElo *int
	if r.WhiteElo != nil {
		v := int(*r.WhiteElo)
		whiteElo = &v
	}
	if r.BlackElo != nil {
		v := int(*r.BlackElo)
		blackElo = &v
	}

	return pgn.ParsedGame{
		Header: pgn.GameHeader{
			Event:             r.Event,
			Site:              r.Site,
			UTCDate:           r.UTCDate,
			TimeControlRaw:    r.TimeControlRaw,
			TimeControlBucket: pgn.TimeControlBucket(r.TimeControl),
			WhiteElo:          whiteElo,
			BlackElo:          blackElo,
			AverageElo:        r.AverageElo,
			ResultRaw:         r.ResultRaw,
			ResultValue:       int(r.ResultValue),
			ECO:               r.ECO,
			Opening:           r.Opening,
			HasEval:           r.HasEval,
		},
		Accuracy: pgn.AccuracyBundle{
			AverageAccuracy:         r.AverageAccuracy,
			AverageAccuracyPerMove:  accAll,
			AvgAccuracyWhite:        r.AvgAccuracyWhite,
			AvgAccuracyBlack:        r.AvgAccuracyBlack,
			AvgAccuracyPerMoveWhite: accWhite,
			AvgAccuracyPerMoveBlack: accBlack,
		},
		Moves:      moves,
		PGNSource:  r.PGNSource,
		SourceFile: r.SourceFile,
	}
}
