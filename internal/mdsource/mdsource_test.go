package mdsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

func TestParseBasicHeadingAndParagraph(t *testing.T) {
	doc := Parse("# Title\n\nSome text.\n")
	require.Len(t, doc.Blocks, 2)

	h, ok := doc.Blocks[0].(docast.Header)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)

	_, ok = doc.Blocks[1].(docast.Paragraph)
	assert.True(t, ok)
}

// TestParseRestoresExtendedHeaderLevels covers the extended-header
// supplemented feature end to end through the real parser.
func TestParseRestoresExtendedHeaderLevels(t *testing.T) {
	doc := Parse("####### Deep Heading\n")
	require.Len(t, doc.Blocks, 1)
	h, ok := doc.Blocks[0].(docast.Header)
	require.True(t, ok)
	assert.Equal(t, 7, h.Level)

	str, ok := h.Inlines[0].(docast.Str)
	require.True(t, ok)
	assert.Equal(t, "Deep", str.Text)
}

// TestParseFootnoteReferenceBecomesNoteInline covers the GFM footnote
// supplemented feature.
func TestParseFootnoteReferenceBecomesNoteInline(t *testing.T) {
	doc := Parse("See the note[^1].\n\n[^1]: Explanation text.\n")
	require.Len(t, doc.Blocks, 1)
	para, ok := doc.Blocks[0].(docast.Paragraph)
	require.True(t, ok)

	var found bool
	for _, in := range para.Inlines {
		if _, ok := in.(docast.Note); ok {
			found = true
		}
	}
	assert.True(t, found, "expected a Note inline for the footnote reference")
}

// TestParseTableColumnWidthsFromDashCounts covers S5.
func TestParseTableColumnWidthsFromDashCounts(t *testing.T) {
	md := "| A | B |\n|:---|-----:|\n| 1 | 2 |\n"
	doc := Parse(md)
	require.Len(t, doc.Blocks, 1)
	tbl, ok := doc.Blocks[0].(docast.Table)
	require.True(t, ok)
	require.Len(t, tbl.ColSpecs, 2)

	assert.False(t, tbl.ColSpecs[0].WidthIsDefault)
	assert.False(t, tbl.ColSpecs[1].WidthIsDefault)
	assert.InDelta(t, 3.0/8.0, tbl.ColSpecs[0].Width, 0.01)
	assert.InDelta(t, 5.0/8.0, tbl.ColSpecs[1].Width, 0.01)
	assert.Equal(t, docast.AlignLeft, tbl.ColSpecs[0].Align)
	assert.Equal(t, docast.AlignRight, tbl.ColSpecs[1].Align)
}

func TestParseUnknownBlockNodesAreSkippedNotFatal(t *testing.T) {
	// A raw HTML block is an AST variant this converter doesn't handle; it
	// must be silently skipped rather than panicking or erroring.
	doc := Parse("<div>raw html</div>\n\n# Still Parsed\n")
	var sawHeader bool
	for _, b := range doc.Blocks {
		if _, ok := b.(docast.Header); ok {
			sawHeader = true
		}
	}
	assert.True(t, sawHeader)
}
