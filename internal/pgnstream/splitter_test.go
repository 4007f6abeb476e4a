package pgnstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, s *Splitter, lines []string) []Record {
	t.Helper()
	var recs []Record
	for _, l := range lines {
		if rec, ok := s.Feed(l); ok {
			recs = append(recs, rec)
		}
	}
	if rec, ok := s.Flush(); ok {
		recs = append(recs, rec)
	}
	return recs
}

func TestSplitterSingleRecord(t *testing.T) {
	lines := []string{
		`[Event "Rated Blitz game"]`,
		`[Result "1-0"]`,
		``,
		`1. e4 e5 2. Nf3 1-0`,
		``,
	}

	recs := feedAll(t, NewSplitter(), lines)
	require.Len(t, recs, 1)

	v, ok := recs[0].Tags.Get("Event")
	assert.True(t, ok)
	assert.Equal(t, "Rated Blitz game", v)
	assert.Equal(t, "1. e4 e5 2. Nf3 1-0", recs[0].MovetextFlat)
}

func TestSplitterMultipleRecords(t *testing.T) {
	lines := []string{
		`[Event "A"]`,
		``,
		`1. e4 1-0`,
		``,
		`[Event "B"]`,
		``,
		`1. d4 0-1`,
		``,
	}

	recs := feedAll(t, NewSplitter(), lines)
	require.Len(t, recs, 2)
	v0, _ := recs[0].Tags.Get("Event")
	v1, _ := recs[1].Tags.Get("Event")
	assert.Equal(t, "A", v0)
	assert.Equal(t, "B", v1)
}

func TestSplitterFlushesPendingRecordAtEOF(t *testing.T) {
	lines := []string{
		`[Event "A"]`,
		``,
		`1. e4 1-0`,
	}

	recs := feedAll(t, NewSplitter(), lines)
	require.Len(t, recs, 1)
}

func TestSplitterDropsMalformedTagLines(t *testing.T) {
	lines := []string{
		`[Event "A"]`,
		`[not a tag line`,
		`[Result "1-0"]`,
		``,
		`1. e4 1-0`,
		``,
	}

	recs := feedAll(t, NewSplitter(), lines)
	require.Len(t, recs, 1)
	_, ok := recs[0].Tags.Get("Result")
	assert.True(t, ok)
}

func TestSplitterPreservesRawLineBreaks(t *testing.T) {
	lines := []string{
		`[Event "A"]`,
		``,
		`1. e4 e5`,
		`2. Nf3 1-0`,
		``,
	}

	recs := feedAll(t, NewSplitter(), lines)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].MovetextRaw, "\n")
	assert.NotContains(t, recs[0].MovetextFlat, "\n")
}
