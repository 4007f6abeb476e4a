// Package openings holds the shared opening-family whitelist and bracket
// helpers used by the popularity, heatmap, and explorer builders. The
// source pipeline kept this as a sibling module imported by more than one
// builder; the whitelist below is reproduced verbatim from it.
package openings

import (
	"regexp"
	"strings"
)

// Whitelist is the set of opening "family" names builders keep broken out
// individually; anything else collapses into an "Other" bucket.
var Whitelist = map[string]bool{
	"Sicilian Defense":       true,
	"French Defense":         true,
	"Caro-Kann Defense":      true,
	"Scandinavian Defense":   true,
	"Alekhine Defense":       true,
	"Pirc Defense":           true,
	"Modern Defense":         true,
	"Dutch Defense":          true,
	"Philidor Defense":       true,
	"Petrov's Defense":       true,
	"Italian Game":           true,
	"Ruy Lopez":              true,
	"Scotch Game":            true,
	"Four Knights Game":      true,
	"Vienna Game":            true,
	"King's Gambit":          true,
	"English Opening":        true,
	"Queen's Gambit":         true,
	"Slav Defense":           true,
	"Semi-Slav Defense":      true,
	"Nimzo-Indian Defense":   true,
	"Queen's Indian Defense": true,
	"Bogo-Indian Defense":    true,
	"King's Indian Defense":  true,
	"Grünfeld Defense":       true,
	"Benoni Defense":         true,
	"Benko Gambit":           true,
	"London System":         true,
	"Catalan Opening":       true,
	"Réti Opening":          true,
	"Bird Opening":          true,
	"Polish Opening":        true,
	"Owen Defense":          true,
	"Czech Defense":         true,
	"Trompowsky Attack":     true,
	"Veresov Opening":       true,
	"Jobava London System":  true,
	"Stonewall Attack":      true,
}

// OtherLabel is used for openings that fall outside Whitelist.
const OtherLabel = "Other"

var variantTrailingNumberRE = regexp.MustCompile(`\s#\d+`)

// Root extracts the family name before the first colon, the form stored
// in the "opening" tag (e.g. "Ruy Lopez: Steinitz Defense" -> "Ruy Lopez").
func Root(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}

// CleanRoot is Root with any trailing " #12"-style disambiguator stripped,
// the normalization the explorer builder applies before grouping.
func CleanRoot(name string) string {
	s := Root(name)
	s = variantTrailingNumberRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Variant extracts the text after the first colon in a full opening name,
// e.g. "Sicilian Defense: Najdorf Variation" -> "Najdorf Variation".
func Variant(fullName string) string {
	idx := strings.IndexByte(fullName, ':')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(fullName[idx+1:])
}

// WhitelistedOrOther maps a raw opening root to itself if whitelisted, or
// to OtherLabel otherwise.
func WhitelistedOrOther(root string) string {
	if Whitelist[root] {
		return root
	}
	return OtherLabel
}

var blackOpeningRE = regexp.MustCompile(`(?i)Defense|Indian|Scandinavian|Pirc|Caro-Kann|Benoni|Czech|Owen|Philidor|Petrov|Alekhine|Modern|Dutch|Slav`)

// Color applies the popularity builder's heuristic: openings whose family
// name matches typical Black-defense naming are attributed to Black,
// everything else to White. This is a naming heuristic, not a rules
// analysis, and is known to misclassify some openings (see design notes).
func Color(openingName string) string {
	if blackOpeningRE.MatchString(openingName) {
		return "black"
	}
	return "white"
}

// RatingBracket5 buckets an average Elo into the 5-bucket scheme used by
// the popularity and heatmap builders (includes "0-500").
func RatingBracket5(avgElo float64) string {
	switch {
	case avgElo < 500:
		return "0-500"
	case avgElo < 1000:
		return "500-1000"
	case avgElo < 1500:
		return "1000-1500"
	case avgElo < 2000:
		return "1500-2000"
	default:
		return "2000+"
	}
}

// RatingBracket4 buckets an average Elo into the 4-bucket scheme used by
// the opening-explorer builder, which has no "0-500" bucket: this is a
// preserved inconsistency with RatingBracket5, not a deliberate redesign.
func RatingBracket4(avgElo float64) string {
	switch {
	case avgElo < 1000:
		return "500-1000"
	case avgElo < 1500:
		return "1000-1500"
	case avgElo < 2000:
		return "1500-2000"
	default:
		return "2000+"
	}
}

