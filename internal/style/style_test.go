package style

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

const testHeaderXML = `<?xml version="1.0" encoding="UTF-8"?>
<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head">
  <hh:refList>
    <hh:borderFills itemCnt="0"/>
    <hh:charProperties itemCnt="1">
      <hh:charPr id="0" height="1000" textColor="#000000"/>
    </hh:charProperties>
    <hh:paraProperties itemCnt="1">
      <hh:paraPr id="0"><margin><left value="0"/></margin></hh:paraPr>
    </hh:paraProperties>
    <hh:numberings itemCnt="0"/>
  </hh:refList>
  <hh:styles itemCnt="1">
    <hh:style id="0" type="PARA" name="Normal" paraPrIDRef="0" charPrIDRef="0"/>
  </hh:styles>
</hh:head>`

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(testHeaderXML))
	return New(doc)
}

// TestDeriveCharPrCacheDeterminism covers §8 invariant 2: a fixed
// (baseId, activeFormats) pair always returns the same id within one
// conversion, different sets map to different ids, and identical sets never
// duplicate header nodes.
func TestDeriveCharPrCacheDeterminism(t *testing.T) {
	r := newTestRegistry(t)

	bold1 := r.DeriveCharPr("0", Bold)
	bold2 := r.DeriveCharPr("0", Bold)
	assert.Equal(t, bold1, bold2, "same (baseId, formats) must return the same id")

	italic := r.DeriveCharPr("0", Italic)
	assert.NotEqual(t, bold1, italic, "different format sets must map to different ids")

	both := r.DeriveCharPr("0", Bold|Italic)
	assert.NotEqual(t, bold1, both)
	assert.NotEqual(t, italic, both)

	assert.Len(t, r.charProperties.ChildElements(), 4, "base + 3 distinct derived nodes, no duplicates")
}

// TestDeriveCharPrEmptyFormatsReturnsBase covers the "if empty, return
// baseId" shortcut of §4.2.
func TestDeriveCharPrEmptyFormatsReturnsBase(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, "0", r.DeriveCharPr("0", 0))
}

// TestS1EmphasisCacheMintsThreeDistinctIDs reproduces scenario S1: bold,
// italic, and bold+italic each mint one new id, and a second occurrence of
// "**bold**" reuses the first.
func TestS1EmphasisCacheMintsThreeDistinctIDs(t *testing.T) {
	r := newTestRegistry(t)

	bold := r.DeriveCharPr("0", Bold)
	italic := r.DeriveCharPr("0", Italic)
	boldItalic := r.DeriveCharPr("0", Bold|Italic)
	boldAgain := r.DeriveCharPr("0", Bold)

	ids := map[string]bool{bold: true, italic: true, boldItalic: true}
	assert.Len(t, ids, 3, "three distinct ids minted beyond the base")
	assert.Equal(t, bold, boldAgain, "second occurrence of bold reuses the first id")
}

func TestDeriveCharPrAppliesFormatMutations(t *testing.T) {
	r := newTestRegistry(t)

	id := r.DeriveCharPr("0", Bold|Underline|ColorBlue)
	var found *etree.Element
	for _, cp := range r.charProperties.ChildElements() {
		if cp.SelectAttrValue("id", "") == id {
			found = cp
			break
		}
	}
	require.NotNil(t, found)
	assert.NotNil(t, found.SelectElement("bold"))
	underline := found.SelectElement("underline")
	require.NotNil(t, underline)
	assert.Equal(t, "#0000FF", underline.SelectAttrValue("color", ""))
	textColor := found.SelectElement("textColor")
	require.NotNil(t, textColor)
	assert.Equal(t, "#0000FF", textColor.SelectAttrValue("value", ""))
}

func TestDeriveCharPrSuperscriptSubscriptAreExclusive(t *testing.T) {
	r := newTestRegistry(t)
	id := r.DeriveCharPr("0", Superscript|Subscript)
	var found *etree.Element
	for _, cp := range r.charProperties.ChildElements() {
		if cp.SelectAttrValue("id", "") == id {
			found = cp
		}
	}
	require.NotNil(t, found)
	// Subscript is applied after superscript in the activeFormats bit order
	// (§4.2), so it wins when both bits are set; supscript is removed.
	assert.Nil(t, found.SelectElement("supscript"))
	assert.NotNil(t, found.SelectElement("subscript"))
}

func TestDeriveAlignedParaPrCaches(t *testing.T) {
	r := newTestRegistry(t)
	left := r.DeriveAlignedParaPr(docast.AlignLeft)
	left2 := r.DeriveAlignedParaPr(docast.AlignLeft)
	center := r.DeriveAlignedParaPr(docast.AlignCenter)
	assert.Equal(t, left, left2)
	assert.NotEqual(t, left, center)
}

func TestDeriveBlockquoteParaPrIncreasesIndentByLevel(t *testing.T) {
	r := newTestRegistry(t)
	lvl0 := r.DeriveBlockquoteParaPr(0)
	lvl1 := r.DeriveBlockquoteParaPr(1)
	assert.NotEqual(t, lvl0, lvl1)

	var found *etree.Element
	for _, pp := range r.paraProperties.ChildElements() {
		if pp.SelectAttrValue("id", "") == lvl1 {
			found = pp
		}
	}
	require.NotNil(t, found)
	left := found.SelectElement("margin").SelectElement("left")
	assert.Equal(t, "1700", left.SelectAttrValue("value", ""))
}

func TestCreateNumberingBulletAndOrdered(t *testing.T) {
	r := newTestRegistry(t)
	bulletID := r.CreateNumbering(Bullet, 1)
	orderedID := r.CreateNumbering(Ordered, 3)
	assert.NotEqual(t, bulletID, orderedID)
	assert.Len(t, r.numberings.ChildElements(), 2)
}

func TestFinalizeSetsItemCnt(t *testing.T) {
	r := newTestRegistry(t)
	r.DeriveCharPr("0", Bold)
	r.DeriveAlignedParaPr(docast.AlignCenter)
	r.CreateNumbering(Bullet, 1)

	r.Finalize()

	assert.Equal(t, "2", r.charProperties.SelectAttrValue("itemCnt", ""))
	assert.Equal(t, "2", r.paraProperties.SelectAttrValue("itemCnt", ""))
	assert.Equal(t, "1", r.numberings.SelectAttrValue("itemCnt", ""))
}

func TestFormatsFromNames(t *testing.T) {
	got := FormatsFromNames("bold", "italic", "color_blue")
	assert.Equal(t, Bold|Italic|ColorBlue, got)
}
