package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormatCounterRomanUpperLower covers spec.md invariant 4: Roman numeral
// templates are recognized case-insensitively and replaced in place.
func TestFormatCounterRomanUpperLower(t *testing.T) {
	assert.Equal(t, "III", formatCounter("I", 3))
	assert.Equal(t, "iv", formatCounter("i", 4))
	assert.Equal(t, "XX", formatCounter("II", 20))
}

func TestFormatCounterArabicDigitRun(t *testing.T) {
	assert.Equal(t, "Chapter 7.", formatCounter("Chapter 1.", 7))
	assert.Equal(t, "12", formatCounter("1", 12))
}

func TestFormatCounterKoreanSyllableCycles(t *testing.T) {
	assert.Equal(t, "나.", formatCounter("가.", 2))
	// Cycles back to the first syllable once past the 14-syllable set.
	assert.Equal(t, "가.", formatCounter("가.", 15))
}

func TestFormatCounterUnrecognizedTemplateUnchanged(t *testing.T) {
	assert.Equal(t, "•", formatCounter("•", 5))
}

// TestFormatCounterPriorityOrder documents that Roman numerals are tried
// before digit runs or Korean syllables, per §4.3.1's stated priority.
func TestFormatCounterPriorityOrder(t *testing.T) {
	// "I" alone is a valid upper Roman numeral for counter 1, even though it
	// contains no digit run and no Korean syllable.
	assert.Equal(t, "I", formatCounter("I", 1))
	// A template holding both a digit run and a Korean syllable has its digit
	// run replaced; the syllable is left as it is.
	assert.Equal(t, "3가", formatCounter("1가", 3))
}

// TestFormatCounterRoundTripsAcrossSequence reproduces a full counter
// sequence 1..20 and checks every value round-trips to a distinct string,
// satisfying the counter-formatting round-trip property of spec.md §8.
func TestFormatCounterRoundTripsAcrossSequence(t *testing.T) {
	seen := make(map[string]bool)
	for i := 1; i <= 20; i++ {
		out := formatCounter("I", i)
		assert.False(t, seen[out], "counter %d produced a duplicate Roman numeral %q", i, out)
		seen[out] = true
	}
}
