// Package columnar persists ParsedGame records to Parquet shards with a
// frozen schema (§4.5) and reloads them for the builder layer (§4.6). The
// three per-move accuracy sequences and the move list are stored as
// JSON-encoded strings, a deliberate schema-stability choice carried
// forward from the source pipeline (see SPEC_FULL.md §9).
package columnar

import "github.com/apache/arrow-go/v18/arrow"

// Schema is the fixed Arrow schema for a parsed-game shard. Column order
// here is the column order on disk.
var Schema = arrow.NewSchema(
	[]arrow.Field{
		{Name: "event", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "site", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "utc_date", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "year", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "time_control_raw", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "time_control", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "white_elo", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "black_elo", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "average_elo", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "result_raw", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "result_value", Type: arrow.PrimitiveTypes.Int8, Nullable: true},
		{Name: "eco", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "opening", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "has_eval", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: "average_accuracy", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "average_accuracy_per_move_json", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "avg_accuracy_white", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "avg_accuracy_black", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "avg_accuracy_per_move_white_json", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "avg_accuracy_per_move_black_json", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "moves_json", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "pgn_source", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "source_file", Type: arrow.BinaryTypes.String, Nullable: true},
	},
	nil,
)

// Row is the flattening of a ParsedGame into the scalar/JSON-string columns
// declared in Schema, plus source_file and year (§3's ColumnarRow).
type Row struct {
	Event          string
	Site           string
	UTCDate        string
	Year           *int32
	TimeControlRaw string
	TimeControl    string
	WhiteElo       *int32
	BlackElo       *int32
	AverageElo     *float64
	ResultRaw      string
	ResultValue    int8
	ECO            string
	Opening        string
	HasEval        bool

	AverageAccuracy              *float64
	AverageAccuracyPerMoveJSON   string
	AvgAccuracyWhite             *float64
	AvgAccuracyBlack             *float64
	AvgAccuracyPerMoveWhiteJSON  string
	AvgAccuracyPerMoveBlackJSON  string

	MovesJSON  string
	PGNSource  string
	SourceFile string
}
