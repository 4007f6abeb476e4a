package openings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootSplitsOnColon(t *testing.T) {
	assert.Equal(t, "Ruy Lopez", Root("Ruy Lopez: Steinitz Defense"))
	assert.Equal(t, "Sicilian Defense", Root("Sicilian Defense: Najdorf Variation"))
	assert.Equal(t, "Italian Game", Root("Italian Game"))
	assert.Equal(t, "", Root(""))
}

func TestCleanRootStripsTrailingNumber(t *testing.T) {
	assert.Equal(t, "Italian Game", CleanRoot("Italian Game #3: Giuoco Piano"))
}

func TestVariantExtraction(t *testing.T) {
	assert.Equal(t, "Najdorf Variation", Variant("Sicilian Defense: Najdorf Variation"))
	assert.Equal(t, "", Variant("Italian Game"))
}

func TestWhitelistedOrOther(t *testing.T) {
	assert.Equal(t, "Sicilian Defense", WhitelistedOrOther("Sicilian Defense"))
	assert.Equal(t, OtherLabel, WhitelistedOrOther("Bongcloud Attack"))
}

func TestColorHeuristic(t *testing.T) {
	assert.Equal(t, "black", Color("Sicilian Defense"))
	assert.Equal(t, "black", Color("Caro-Kann Defense"))
	assert.Equal(t, "white", Color("Italian Game"))
	assert.Equal(t, "white", Color("Ruy Lopez"))
}

func TestRatingBrackets(t *testing.T) {
	assert.Equal(t, "0-500", RatingBracket5(200))
	assert.Equal(t, "500-1000", RatingBracket5(600))
	assert.Equal(t, "2000+", RatingBracket5(2200))

	assert.Equal(t, "500-1000", RatingBracket4(200))
	assert.Equal(t, "500-1000", RatingBracket4(999))
	assert.Equal(t, "2000+", RatingBracket4(2200))
}
