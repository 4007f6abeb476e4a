// Package stats builds a simple summary artifact (§4.11): total game
// count, games by time-control bucket, and games by year. Grounded on
// builder/builders/stats_builder.py.
package stats

import (
	"strconv"

	"github.com/kyleboon/chessarchive/internal/columnar"
)

// Payload is the stats artifact shape.
type Payload struct {
	TotalGames    int            `json:"total_games"`
	ByTimeControl map[string]int `json:"by_time_control"`
	ByYear        map[string]int `json:"by_year"`
}

// Builder implements builder.Builder.
type Builder struct{}

// Name identifies this builder's output directory.
func (Builder) Name() string { return "stats" }

// Build summarizes rows by time control and year.
func (Builder) Build(rows []columnar.Row) (any, error) {
	p := Payload{
		ByTimeControl: map[string]int{},
		ByYear:        map[string]int{},
	}
	for _, r := range rows {
		p.TotalGames++
		p.ByTimeControl[r.TimeControl]++
		if r.Year != nil {
			p.ByYear[strconv.Itoa(int(*r.Year))]++
		}
	}
	return p, nil
}
