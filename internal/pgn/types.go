// Package pgn parses individual PGN game records into normalized,
// analytics-ready structures. SAN tokens are treated opaquely: the package
// never validates chess rules and never builds a board.
package pgn

// TagMap is an ordered mapping from PGN tag name to tag value. Order is
// preserved so a record's tags can be reconstructed faithfully.
type TagMap struct {
	keys   []string
	values map[string]string
}

// NewTagMap returns an empty TagMap.
func NewTagMap() *TagMap {
	return &TagMap{values: make(map[string]string)}
}

// Set inserts or overwrites a tag. Insertion order is preserved on first
// Set; re-setting an existing key does not move it.
func (t *TagMap) Set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the tag value and whether it was present.
func (t *TagMap) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// GetDefault returns the tag value or def when absent.
func (t *TagMap) GetDefault(key, def string) string {
	if v, ok := t.values[key]; ok {
		return v
	}
	return def
}

// Keys returns tag names in insertion order.
func (t *TagMap) Keys() []string {
	return t.keys
}

// Len reports the number of tags.
func (t *TagMap) Len() int {
	return len(t.keys)
}

// TimeControlBucket classifies a game's pace from its TimeControl tag.
type TimeControlBucket string

const (
	Bullet TimeControlBucket = "BULLET"
	Blitz  TimeControlBucket = "BLITZ"
	Rapid  TimeControlBucket = "RAPID"
	Other  TimeControlBucket = "OTHER"
)

// Move is a single ply: its SAN token (trailing annotation stripped), an
// optional annotation tag, and an optional engine evaluation in pawn units
// (positive favors White).
type Move struct {
	San  string   `json:"move"`
	Eval *float64 `json:"eval"`
	Tag  string   `json:"tag,omitempty"`
}

// GameHeader is the typed, filtered projection of a record's tags.
type GameHeader struct {
	Event             string
	Site              string
	UTCDate           string
	TimeControlRaw    string
	TimeControlBucket TimeControlBucket
	WhiteElo          *int
	BlackElo          *int
	AverageElo        *float64
	ResultRaw         string
	ResultValue       int
	ECO               string
	Opening           string
	HasEval           bool
}

// AccuracyBundle carries the per-side and combined accuracy scalars and
// running trajectories derived by the accuracy engine (§4.4).
type AccuracyBundle struct {
	AverageAccuracy           *float64
	AverageAccuracyPerMove    []float64
	AvgAccuracyWhite          *float64
	AvgAccuracyBlack          *float64
	AvgAccuracyPerMoveWhite   []float64
	AvgAccuracyPerMoveBlack   []float64
}

// ParsedGame is the union of a game's header, accuracy bundle, move
// sequence, and a reconstructed PGN source string.
type ParsedGame struct {
	Header     GameHeader
	Accuracy   AccuracyBundle
	Moves      []Move
	PGNSource  string
	SourceFile string
}
