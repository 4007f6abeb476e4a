// Package heatmap builds the opening-accuracy heatmap artifact (§4.9): for
// each time control, rating bracket, and opening (plus an aggregate "All"),
// a 10x10 matrix relating opening-phase accuracy to after-opening accuracy.
// Grounded on builder/builders/opening_accuracy_heatmap_builder.py, extended
// to track per-color cells since the captured version only tracked combined
// win score (see design notes).
package heatmap

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/kyleboon/chessarchive/internal/builder/openings"
	"github.com/kyleboon/chessarchive/internal/columnar"
)

const (
	bins         = 10
	openingMoves = 12
	allGroupName = "All"
)

var allowedTimeControls = map[string]bool{"BLITZ": true, "RAPID": true, "BULLET": true}

var ratingBrackets5 = []string{"0-500", "500-1000", "1000-1500", "1500-2000", "2000+"}

// Cell is one (after-opening-bin, opening-bin) matrix entry: a combined
// value plus its white-only and black-only counterparts.
type Cell struct {
	Combined float64 `json:"combined"`
	White    float64 `json:"white"`
	Black    float64 `json:"black"`
}

// Group is the heatmap and sample-count matrices for one opening within a
// (time control, rating bracket) bucket, plus the total sample count the
// matrices were built from.
type Group struct {
	Samples     int
	Heatmap     [bins][bins]Cell
	CellSamples [bins][bins]Cell
}

// MarshalJSON flattens the fixed-size arrays to nested JSON arrays of
// objects, matching the source pipeline's plain list-of-lists shape.
func (g Group) MarshalJSON() ([]byte, error) {
	type alias struct {
		Samples     int      `json:"samples"`
		Heatmap     [][]Cell `json:"heatmap"`
		CellSamples [][]Cell `json:"cell_samples"`
	}
	a := alias{Samples: g.Samples, Heatmap: make([][]Cell, bins), CellSamples: make([][]Cell, bins)}
	for y := 0; y < bins; y++ {
		a.Heatmap[y] = g.Heatmap[y][:]
		a.CellSamples[y] = g.CellSamples[y][:]
	}
	return json.Marshal(a)
}

// Payload is keyed time_control -> rating_bracket -> opening_name -> Group.
type Payload map[string]map[string]map[string]*Group

type aggCell struct {
	totalCount, whiteCount, blackCount    int
	totalWinSum, whiteWinSum, blackWinSum float64
}

type agg struct {
	total int
	cells [bins][bins]*aggCell
}

func newAgg() *agg {
	a := &agg{}
	for y := 0; y < bins; y++ {
		for x := 0; x < bins; x++ {
			a.cells[y][x] = &aggCell{}
		}
	}
	return a
}

type groupKey struct {
	timeControl, bracket, opening string
}

// Builder implements builder.Builder.
type Builder struct {
	OpeningMoves         int // defaults to 12 when zero
	MinSamplesPerOpening int
	MaxOpeningsPerBucket int // 0 means unbounded
}

// Name identifies this builder's output directory.
func (Builder) Name() string { return "opening_accuracy_heatmap" }

// Build computes the accuracy heatmap over rows with eval data.
func (b Builder) Build(rows []columnar.Row) (any, error) {
	openingMoves := b.OpeningMoves
	if openingMoves == 0 {
		openingMoves = 12
	}

	aggs := map[groupKey]*agg{}
	ensure := func(key groupKey) *agg {
		a, ok := aggs[key]
		if !ok {
			a = newAgg()
			aggs[key] = a
		}
		return a
	}

	for _, r := range rows {
		if !allowedTimeControls[r.TimeControl] {
			continue
		}
		if r.AvgAccuracyPerMoveWhiteJSON == "" && r.AvgAccuracyPerMoveBlackJSON == "" {
			continue
		}

		avgElo := 0.0
		if r.AverageElo != nil {
			avgElo = *r.AverageElo
		}
		bracket := openings.RatingBracket5(avgElo)
		root := openings.Root(r.Opening)
		opening := openings.WhitelistedOrOther(root)

		var whiteTraj, blackTraj []float64
		_ = json.Unmarshal([]byte(r.AvgAccuracyPerMoveWhiteJSON), &whiteTraj)
		_ = json.Unmarshal([]byte(r.AvgAccuracyPerMoveBlackJSON), &blackTraj)

		addSide(ensure(groupKey{r.TimeControl, bracket, opening}), whiteTraj, true, r.ResultValue, openingMoves)
		addSide(ensure(groupKey{r.TimeControl, bracket, allGroupName}), whiteTraj, true, r.ResultValue, openingMoves)
		addSide(ensure(groupKey{r.TimeControl, bracket, opening}), blackTraj, false, r.ResultValue, openingMoves)
		addSide(ensure(groupKey{r.TimeControl, bracket, allGroupName}), blackTraj, false, r.ResultValue, openingMoves)
	}

	// group by (time_control, bracket) before filtering, so "All" and the
	// per-opening min/max rules can be applied together.
	byTCBracket := map[[2]string]map[string]*agg{}
	for key, a := range aggs {
		tcKey := toLowerASCII(key.timeControl)
		bk := [2]string{tcKey, key.bracket}
		if byTCBracket[bk] == nil {
			byTCBracket[bk] = map[string]*agg{}
		}
		byTCBracket[bk][key.opening] = a
	}

	out := Payload{}
	for tcKey := range allowedTimeControls {
		tcKey = toLowerASCII(tcKey)
		if out[tcKey] == nil {
			out[tcKey] = map[string]map[string]*Group{}
		}
		for _, bracket := range ratingBrackets5 {
			byOpening := byTCBracket[[2]string{tcKey, bracket}]
			out[tcKey][bracket] = filterAndAssemble(byOpening, b.MinSamplesPerOpening, b.MaxOpeningsPerBucket)
		}
	}
	return out, nil
}

// filterAndAssemble keeps "All" unconditionally, drops other openings below
// MinSamplesPerOpening, sorts by sample count descending, and truncates to
// MaxOpeningsPerBucket if set.
func filterAndAssemble(byOpening map[string]*agg, minSamples, maxOpenings int) map[string]*Group {
	result := map[string]*Group{}

	all, hasAll := byOpening[allGroupName]
	if hasAll {
		result[allGroupName] = all.toGroup()
	} else {
		result[allGroupName] = newAgg().toGroup()
	}

	type named struct {
		name string
		a    *agg
	}
	var rest []named
	for name, a := range byOpening {
		if name == allGroupName {
			continue
		}
		if a.total < minSamples {
			continue
		}
		rest = append(rest, named{name: name, a: a})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].a.total > rest[j].a.total })
	if maxOpenings > 0 && len(rest) > maxOpenings {
		rest = rest[:maxOpenings]
	}
	for _, n := range rest {
		result[n.name] = n.a.toGroup()
	}
	return result
}

func addSide(a *agg, traj []float64, isWhite bool, resultValue int, openingMoves int) {
	opening, after, ok := computeOpeningAndAfter(traj, openingMoves)
	if !ok {
		return
	}
	win := playerWinScore(resultValue, isWhite)

	x := binIndex10(opening)
	y := binIndex10(after)
	c := a.cells[y][x]

	a.total++
	c.totalCount++
	c.totalWinSum += win
	if isWhite {
		c.whiteCount++
		c.whiteWinSum += win
	} else {
		c.blackCount++
		c.blackWinSum += win
	}
}

func (a *agg) toGroup() *Group {
	g := &Group{Samples: a.total}
	for y := 0; y < bins; y++ {
		for x := 0; x < bins; x++ {
			c := a.cells[y][x]
			g.Heatmap[y][x] = Cell{
				Combined: avgOrZero(c.totalWinSum, c.totalCount),
				White:    avgOrZero(c.whiteWinSum, c.whiteCount),
				Black:    avgOrZero(c.blackWinSum, c.blackCount),
			}
			g.CellSamples[y][x] = Cell{
				Combined: float64(c.totalCount),
				White:    float64(c.whiteCount),
				Black:    float64(c.blackCount),
			}
		}
	}
	return g
}

func avgOrZero(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*1e6) / 1e6
}

// computeOpeningAndAfter reconstructs the opening-phase and after-opening
// cumulative accuracy averages from a running-average trajectory (§4.4).
func computeOpeningAndAfter(trajectory []float64, openingMoves int) (opening, after float64, ok bool) {
	if len(trajectory) <= openingMoves {
		return 0, 0, false
	}
	openingAvg := trajectory[openingMoves-1]
	finalAvg := trajectory[len(trajectory)-1]
	nTotal := len(trajectory)

	totalSum := finalAvg * float64(nTotal)
	openingSum := openingAvg * float64(openingMoves)
	nAfter := nTotal - openingMoves
	if nAfter <= 0 {
		return 0, 0, false
	}
	afterAvg := (totalSum - openingSum) / float64(nAfter)
	return openingAvg, afterAvg, true
}

func binIndex10(x float64) int {
	if x < 0 {
		x = 0
	}
	if x > 100 {
		x = 100
	}
	idx := int(x / 10.0)
	if idx >= bins {
		return bins - 1
	}
	return idx
}

func playerWinScore(resultValue int, isWhite bool) float64 {
	if resultValue == 0 {
		return 0.5
	}
	if isWhite {
		if resultValue == 1 {
			return 1.0
		}
		return 0.0
	}
	if resultValue == -1 {
		return 1.0
	}
	return 0.0
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
