package mdsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFootnoteDefinitionsCollectsAndStrips(t *testing.T) {
	text := "Body text with a ref[^1].\n\n[^1]: The footnote body.\n\nMore text.\n"
	rewritten, defs := extractFootnoteDefinitions(text)

	assert.Equal(t, "The footnote body.", defs["1"])
	assert.NotContains(t, rewritten, "[^1]: The footnote body.")
	assert.Contains(t, rewritten, "ref[^1]")
	assert.Contains(t, rewritten, "More text.")
}

func TestExtractFootnoteDefinitionsNoDefinitionsLeavesTextUnchanged(t *testing.T) {
	text := "No footnotes here.\n"
	rewritten, defs := extractFootnoteDefinitions(text)
	assert.Empty(t, defs)
	assert.Equal(t, text, rewritten)
}

func TestExtractFootnoteDefinitionsMultipleIDs(t *testing.T) {
	text := "[^a]: first\n[^b]: second\n"
	_, defs := extractFootnoteDefinitions(text)
	assert.Equal(t, "first", defs["a"])
	assert.Equal(t, "second", defs["b"])
}
