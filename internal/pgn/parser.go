package pgn

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is the minimal shape Parse needs from a split raw record: an
// ordered tag map plus flat/raw movetext. internal/pgnstream.Record
// satisfies this by field name; Parse takes the fields directly so this
// package never imports pgnstream (avoiding a cycle).
type Record struct {
	Tags         *TagMap
	MovetextFlat string
	MovetextRaw  string
}

var timeControlRE = regexp.MustCompile(`^\s*(\d+)\s*(?:\+\s*(\d+)\s*)?$`)

// TimeControlBucketOf derives the time-control bucket from a raw
// "initial[+increment]" string, per §4.3.
func TimeControlBucketOf(raw string) TimeControlBucket {
	m := timeControlRE.FindStringSubmatch(raw)
	if m == nil {
		return Other
	}
	initial, err := strconv.Atoi(m[1])
	if err != nil {
		return Other
	}
	inc := 0
	if m[2] != "" {
		inc, _ = strconv.Atoi(m[2])
	}
	estimated := initial + 40*inc
	switch {
	case estimated < 180:
		return Bullet
	case estimated < 480:
		return Blitz
	case estimated < 1500:
		return Rapid
	default:
		return Other
	}
}

func resultValue(raw string) int {
	switch raw {
	case "1-0":
		return 1
	case "0-1":
		return -1
	case "1/2-1/2":
		return 0
	default:
		return 0
	}
}

func safeInt(tags *TagMap, key string) *int {
	v, ok := tags.Get(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}

func averageElo(white, black *int) *float64 {
	switch {
	case white == nil && black == nil:
		return nil
	case white == nil:
		v := float64(*black)
		return &v
	case black == nil:
		v := float64(*white)
		return &v
	default:
		v := (float64(*white) + float64(*black)) / 2.0
		return &v
	}
}

// parseCreationTimestamp requires UTCDate (falling back to Date) plus
// UTCTime (defaulting to midnight). Games with a missing or placeholder
// date tag, or an unparsable date/time combination, have no usable
// timestamp and are filtered out.
func parseCreationTimestamp(tags *TagMap) (time.Time, bool) {
	date, ok := tags.Get("UTCDate")
	if !ok {
		date, ok = tags.Get("Date")
	}
	if !ok || date == "" || date == "????.??.??" {
		return time.Time{}, false
	}
	clock := tags.GetDefault("UTCTime", "00:00:00")

	t, err := time.Parse("2006.01.02 15:04:05", date+" "+clock)
	if err != nil {
		t, err = time.Parse("2006.01.02 15:04:05", date+" 00:00:00")
		if err != nil {
			return time.Time{}, false
		}
	}
	return t.UTC(), true
}

func reconstructPGNSource(tags *TagMap, movetextRaw string) string {
	var b strings.Builder
	for _, k := range tags.Keys() {
		v, _ := tags.Get(k)
		b.WriteByte('[')
		b.WriteString(k)
		b.WriteString(` "`)
		b.WriteString(v)
		b.WriteString("\"]\n")
	}
	b.WriteByte('\n')
	b.WriteString(strings.TrimSpace(movetextRaw))
	b.WriteByte('\n')
	return b.String()
}

// Parse applies the §4.3 filters and, if the record survives, builds a
// ParsedGame: its header, move list, and accuracy bundle. ok is false when
// the record was filtered out (missing/placeholder date, non-terminal
// result, non-Standard variant) — this is FilteredOut, not an error.
func Parse(rec Record) (ParsedGame, bool) {
	if _, ok := parseCreationTimestamp(rec.Tags); !ok {
		return ParsedGame{}, false
	}

	result, hasResult := rec.Tags.Get("Result")
	if !hasResult {
		result = "*"
	}
	if result != "1-0" && result != "0-1" && result != "1/2-1/2" {
		return ParsedGame{}, false
	}

	variant := rec.Tags.GetDefault("Variant", "Standard")
	if !strings.EqualFold(variant, "Standard") {
		return ParsedGame{}, false
	}

	whiteElo := safeInt(rec.Tags, "WhiteElo")
	blackElo := safeInt(rec.Tags, "BlackElo")
	tcRaw := rec.Tags.GetDefault("TimeControl", "")

	utcDate, _ := rec.Tags.Get("UTCDate")
	if utcDate == "" {
		utcDate, _ = rec.Tags.Get("Date")
	}

	moves := extractMoves(rec.MovetextFlat)
	bundle, hasEval := ComputeAccuracy(moves)

	header := GameHeader{
		Event:             rec.Tags.GetDefault("Event", ""),
		Site:              rec.Tags.GetDefault("Site", ""),
		UTCDate:           utcDate,
		TimeControlRaw:    tcRaw,
		TimeControlBucket: TimeControlBucketOf(tcRaw),
		WhiteElo:          whiteElo,
		BlackElo:          blackElo,
		AverageElo:        averageElo(whiteElo, blackElo),
		ResultRaw:         result,
		ResultValue:       resultValue(result),
		ECO:               rec.Tags.GetDefault("ECO", ""),
		Opening:           rec.Tags.GetDefault("Opening", ""),
		HasEval:           hasEval,
	}

	return ParsedGame{
		Header:    header,
		Accuracy:  bundle,
		Moves:     moves,
		PGNSource: reconstructPGNSource(rec.Tags, rec.MovetextRaw),
	}, true
}
