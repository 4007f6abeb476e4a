package pgn

import (
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenMove tokenKind = iota
	tokenComment
)

type token struct {
	kind tokenKind
	text string
}

// tokenize walks flat movetext in a single pass, keeping `{...}` comments as
// one token each (so eval extraction can scan their contents) and splitting
// everything else on whitespace.
func tokenize(flat string) []token {
	var tokens []token
	n := len(flat)
	i := 0
	for i < n {
		c := flat[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		if c == '{' {
			j := strings.IndexByte(flat[i+1:], '}')
			var end int
			if j == -1 {
				end = n
			} else {
				end = i + 1 + j
			}
			content := flat[i+1 : end]
			tokens = append(tokens, token{kind: tokenComment, text: content})
			if j == -1 {
				i = n
			} else {
				i = end + 1
			}
			continue
		}
		j := i
		for j < n && flat[j] != ' ' && flat[j] != '\t' && flat[j] != '\n' && flat[j] != '\r' && flat[j] != '{' {
			j++
		}
		tokens = append(tokens, token{kind: tokenMove, text: flat[i:j]})
		i = j
	}
	return tokens
}

var resultTokens = map[string]bool{
	"1-0":     true,
	"0-1":     true,
	"1/2-1/2": true,
	"*":       true,
}

// isMoveNumber reports whether tok matches ^\d+\.+$ (e.g. "1.", "12...").
func isMoveNumber(tok string) bool {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 || i == len(tok) {
		return false
	}
	for j := i; j < len(tok); j++ {
		if tok[j] != '.' {
			return false
		}
	}
	return true
}

// isSkippableToken reports whether tok should never become a Move: the
// game result, a move-number marker, or a NAG ($n).
func isSkippableToken(tok string) bool {
	if resultTokens[tok] {
		return true
	}
	if strings.HasPrefix(tok, "$") {
		return true
	}
	return isMoveNumber(tok)
}

// annotation suffixes, checked longest-first so "??" matches before "?".
var annotationSuffixes = []string{"??", "?!", "!?", "!!", "!", "?"}

// splitAnnotation separates a trailing annotation glyph from a SAN token.
func splitAnnotation(san string) (string, string) {
	for _, suffix := range annotationSuffixes {
		if strings.HasSuffix(san, suffix) {
			return strings.TrimSuffix(san, suffix), suffix
		}
	}
	return san, ""
}

// parseEvalValue parses a `[%eval X]` payload. Mate scores ("#3", "#-1")
// and unparsable values return false.
func parseEvalValue(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "#") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var evalMarker = "[%eval"

// extractEval scans a comment body for a `[%eval X]` token and returns its
// numeric value, if any.
func extractEval(comment string) (float64, bool) {
	idx := strings.Index(comment, evalMarker)
	if idx == -1 {
		return 0, false
	}
	rest := comment[idx+len(evalMarker):]
	close := strings.IndexByte(rest, ']')
	if close == -1 {
		return 0, false
	}
	return parseEvalValue(rest[:close])
}

// extractMoves walks the token stream and builds the Move list, attaching
// each comment's eval (if any) to the most recently appended Move. A
// comment preceding any move is dropped, matching the reference behavior.
func extractMoves(flat string) []Move {
	tokens := tokenize(flat)
	var moves []Move
	lastIdx := -1

	for _, tok := range tokens {
		if tok.kind == tokenComment {
			if lastIdx == -1 {
				continue
			}
			v, ok := extractEval(tok.text)
			if !ok {
				continue
			}
			ev := v
			moves[lastIdx].Eval = &ev
			continue
		}

		if isSkippableToken(tok.text) {
			continue
		}

		san, tag := splitAnnotation(tok.text)
		moves = append(moves, Move{San: san, Tag: tag})
		lastIdx = len(moves) - 1
	}

	return moves
}
