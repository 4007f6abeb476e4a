// Package popularity builds the opening-popularity artifact (§4.8): per
// time-control bucket and rating bracket, how often each whitelisted
// opening is played and how it performs, grounded on
// builder/builders/popularity_builder.py.
package popularity

import (
	"sort"

	"github.com/kyleboon/chessarchive/internal/builder/openings"
	"github.com/kyleboon/chessarchive/internal/columnar"
)

// Entry is one opening's popularity within a (time control, rating
// bracket) group.
type Entry struct {
	Name       string     `json:"name"`
	Popularity float64    `json:"popularity"`
	Color      string     `json:"color"`
	Count      int        `json:"count"`
	WinRate    [3]float64 `json:"win_rate"`
}

// Payload is keyed time_control -> rating_bracket -> entries, sorted by
// descending popularity.
type Payload map[string]map[string][]Entry

type groupKey struct {
	timeControl string
	bracket     string
}

type cell struct {
	count int
	wWins int
	bWins int
	draws int
	color string
}

// Builder implements builder.Builder.
type Builder struct {
	MaxOpeningsPerBucket int // 0 means unbounded
	MinSamplesPerOpening int
}

// Name identifies this builder's output directory.
func (Builder) Name() string { return "opening_popularity" }

var allowedTimeControls = map[string]bool{"BLITZ": true, "RAPID": true, "BULLET": true}

// Build computes popularity/win-rate statistics over rows, grouped by
// time control and rating bracket.
func (b Builder) Build(rows []columnar.Row) (any, error) {
	totals := map[groupKey]int{}
	cells := map[groupKey]map[string]*cell{}

	for _, r := range rows {
		if !allowedTimeControls[r.TimeControl] {
			continue
		}
		root := openings.CleanRoot(r.Opening)
		name := openings.WhitelistedOrOther(root)
		if name == openings.OtherLabel {
			continue
		}

		avgElo := 0.0
		if r.AverageElo != nil {
			avgElo = *r.AverageElo
		}
		key := groupKey{timeControl: r.TimeControl, bracket: openings.RatingBracket5(avgElo)}
		totals[key]++

		if cells[key] == nil {
			cells[key] = map[string]*cell{}
		}
		c, ok := cells[key][name]
		if !ok {
			c = &cell{color: openings.Color(name)}
			cells[key][name] = c
		}
		c.count++
		switch r.ResultValue {
		case 1:
			c.wWins++
		case -1:
			c.bWins++
		default:
			c.draws++
		}
	}

	out := Payload{}
	for key, byOpening := range cells {
		tcKey := toLowerASCII(key.timeControl)
		if out[tcKey] == nil {
			out[tcKey] = map[string][]Entry{}
		}

		entries := make([]Entry, 0, len(byOpening))
		total := totals[key]
		for name, c := range byOpening {
			if c.count < b.MinSamplesPerOpening {
				continue
			}
			popularity := 0.0
			if total > 0 {
				popularity = round4(float64(c.count) / float64(total))
			}
			wrWhite := round4((float64(c.wWins) + 0.5*float64(c.draws)) / float64(c.count))
			wrBlack := round4((float64(c.bWins) + 0.5*float64(c.draws)) / float64(c.count))

			entries = append(entries, Entry{
				Name:       name,
				Popularity: popularity,
				Color:      c.color,
				Count:      c.count,
				// The source builder emits [wr_white, wr_white, wr_black] - the
				// middle slot duplicates White's rate rather than giving Black
				// its own middle value. Preserved as-is (see design notes).
				WinRate: [3]float64{wrWhite, wrWhite, wrBlack},
			})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Popularity > entries[j].Popularity
		})
		if b.MaxOpeningsPerBucket > 0 && len(entries) > b.MaxOpeningsPerBucket {
			entries = entries[:b.MaxOpeningsPerBucket]
		}

		out[tcKey][key.bracket] = entries
	}
	return out, nil
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
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
