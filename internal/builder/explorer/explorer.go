// Package explorer builds the opening-explorer move tree artifact (§4.10):
// for each time control and rating bracket, a recursive tree of the most
// frequent moves with per-node win/draw/loss rates. Grounded on
// builder/builders/opening_explorer_builder.py.
package explorer

import (
	"encoding/json"
	"sort"

	"github.com/kyleboon/chessarchive/internal/builder/openings"
	"github.com/kyleboon/chessarchive/internal/columnar"
)

var allowedTimeControls = map[string]bool{"BLITZ": true, "RAPID": true, "BULLET": true}

// Node is one move in the explorer tree.
type Node struct {
	Move     string     `json:"move"`
	Name     string     `json:"name"`
	Variant  string     `json:"variant"`
	Count    int        `json:"count"`
	Stats    [3]float64 `json:"stats"`
	Children []*Node    `json:"children,omitempty"`
}

// Payload is keyed time_control -> rating_bracket -> top-level move nodes.
type Payload map[string]map[string][]*Node

// Wrapped is the top-level shape Build returns: the payload nested under the
// "opening_explorer" key, matching the source pipeline's build() output.
type Wrapped map[string]Payload

// gameMoves is the minimal per-game view the explorer needs: the move
// sequence plus the grouping/result fields carried alongside it.
type gameMoves struct {
	timeControl  string
	bracket      string
	cleanOpening string
	fullOpening  string
	resultValue  int
	moves        []string
}

// Builder implements builder.Builder.
type Builder struct {
	MaxDepth int // defaults to 8 when zero
	MinGames int
}

// Name identifies this builder's output directory.
func (Builder) Name() string { return "opening_explorer" }

// Build computes the recursive move-explorer tree over rows.
func (b Builder) Build(rows []columnar.Row) (any, error) {
	maxDepth := b.MaxDepth
	if maxDepth == 0 {
		maxDepth = 8
	}

	grouped := map[[2]string][]gameMoves{}
	for _, r := range rows {
		if !allowedTimeControls[r.TimeControl] {
			continue
		}
		avgElo := 0.0
		if r.AverageElo != nil {
			avgElo = *r.AverageElo
		}
		bracket := openings.RatingBracket4(avgElo)

		var moves []struct {
			Move string `json:"move"`
		}
		if err := json.Unmarshal([]byte(r.MovesJSON), &moves); err != nil {
			continue
		}
		sans := make([]string, 0, len(moves))
		for _, m := range moves {
			sans = append(sans, m.Move)
		}

		key := [2]string{r.TimeControl, bracket}
		grouped[key] = append(grouped[key], gameMoves{
			timeControl:  r.TimeControl,
			bracket:      bracket,
			cleanOpening: openings.CleanRoot(r.Opening),
			fullOpening:  r.Opening,
			resultValue:  r.ResultValue,
			moves:        sans,
		})
	}

	out := Payload{}
	for key, games := range grouped {
		tcKey := toLowerASCII(key[0])
		if out[tcKey] == nil {
			out[tcKey] = map[string][]*Node{}
		}
		out[tcKey][key[1]] = buildRecursive(games, 0, maxDepth, b.MinGames)
	}
	return Wrapped{"opening_explorer": out}, nil
}

func buildRecursive(games []gameMoves, depth, maxDepth, minGames int) []*Node {
	if depth >= maxDepth || len(games) == 0 {
		return nil
	}

	active := make([]gameMoves, 0, len(games))
	for _, g := range games {
		if len(g.moves) > depth {
			active = append(active, g)
		}
	}
	if len(active) == 0 {
		return nil
	}

	topK := 10
	if depth >= 2 {
		topK = 3
	}

	type stat struct {
		count                          int
		wins, draws, losses            int
		familyCounts                   map[string]int
		fullNameCounts                 map[string]int
		games                          []gameMoves
	}
	byMove := map[string]*stat{}
	for _, g := range active {
		m := g.moves[depth]
		s, ok := byMove[m]
		if !ok {
			s = &stat{familyCounts: map[string]int{}, fullNameCounts: map[string]int{}}
			byMove[m] = s
		}
		s.count++
		switch g.resultValue {
		case 1:
			s.wins++
		case -1:
			s.losses++
		default:
			s.draws++
		}
		s.familyCounts[g.cleanOpening]++
		s.fullNameCounts[g.fullOpening]++
		s.games = append(s.games, g)
	}

	moves := make([]string, 0, len(byMove))
	for m := range byMove {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool {
		return byMove[moves[i]].count > byMove[moves[j]].count
	})
	if len(moves) > topK {
		moves = moves[:topK]
	}

	nodes := make([]*Node, 0, len(moves))
	for _, m := range moves {
		s := byMove[m]
		if s.count < minGames {
			continue
		}
		total := float64(s.count)
		node := &Node{
			Move:  m,
			Name:  mostFrequent(s.familyCounts),
			Count: s.count,
			Stats: [3]float64{
				round3(float64(s.wins) / total),
				round3(float64(s.draws) / total),
				round3(float64(s.losses) / total),
			},
		}
		node.Variant = openings.Variant(mostFrequent(s.fullNameCounts))

		children := buildRecursive(s.games, depth+1, maxDepth, minGames)
		if len(children) > 0 {
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func mostFrequent(counts map[string]int) string {
	best, bestCount := "", -1
	for name, c := range counts {
		if c > bestCount {
			best, bestCount = name, c
		}
	}
	return best
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
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
