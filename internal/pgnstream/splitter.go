// Package pgnstream turns a compressed archive of PGN text into a sequence
// of raw per-game records: a tag map plus the game's movetext, both flat
// (whitespace-joined) and in its original line-broken form.
package pgnstream

import (
	"regexp"
	"strings"

	"github.com/kyleboon/chessarchive/internal/pgn"
)

// Record is one PGN game as split off the line stream, before any
// tag-level filtering or movetext tokenization.
type Record struct {
	Tags         *pgn.TagMap
	MovetextFlat string
	MovetextRaw  string
}

var tagLineRE = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]$`)

type splitterState int

const (
	stateSearchHeader splitterState = iota
	stateHeader
	stateMoves
)

// Splitter implements the record-boundary state machine of §4.2: a tag
// block, a blank line, then movetext terminated by a blank line (or EOF).
type Splitter struct {
	state        splitterState
	tags         *pgn.TagMap
	movetextLine []string
}

// NewSplitter returns a Splitter ready to consume lines from the start of a
// stream.
func NewSplitter() *Splitter {
	return &Splitter{state: stateSearchHeader, tags: pgn.NewTagMap()}
}

// Feed consumes one line and returns a completed Record when a blank line
// terminates a movetext block. Tag lines that don't match the grammar are
// silently dropped, per §4.2's leniency rule.
func (s *Splitter) Feed(line string) (Record, bool) {
	switch s.state {
	case stateSearchHeader, stateHeader:
		if strings.HasPrefix(line, "[") {
			s.state = stateHeader
			if m := tagLineRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				s.tags.Set(m[1], m[2])
			}
			return Record{}, false
		}
		if strings.TrimSpace(line) == "" {
			return Record{}, false
		}
		// First non-tag, non-empty line: movetext begins.
		s.movetextLine = []string{strings.TrimRight(line, " \t")}
		s.state = stateMoves
		return Record{}, false

	case stateMoves:
		if strings.TrimSpace(line) == "" {
			rec, ok := s.emit()
			s.reset()
			return rec, ok
		}
		s.movetextLine = append(s.movetextLine, strings.TrimRight(line, " \t"))
		return Record{}, false
	}
	return Record{}, false
}

// Flush emits a pending record at end-of-input if the stream ended while in
// the MOVES state with a non-empty tag set.
func (s *Splitter) Flush() (Record, bool) {
	if s.state != stateMoves {
		return Record{}, false
	}
	rec, ok := s.emit()
	s.reset()
	return rec, ok
}

func (s *Splitter) emit() (Record, bool) {
	if s.tags.Len() == 0 {
		return Record{}, false
	}
	raw := strings.Join(s.movetextLine, "\n")
	var flatParts []string
	for _, line := range s.movetextLine {
		t := strings.TrimSpace(line)
		if t != "" {
			flatParts = append(flatParts, t)
		}
	}
	return Record{
		Tags:         s.tags,
		MovetextFlat: strings.Join(flatParts, " "),
		MovetextRaw:  raw,
	}, true
}

func (s *Splitter) reset() {
	s.state = stateSearchHeader
	s.tags = pgn.NewTagMap()
	s.movetextLine = nil
}
