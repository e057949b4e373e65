// Package style owns the mutable header-XML tree during a conversion and
// implements the content-addressed derivation cache described in
// specification §4.2: deriving new character/paragraph-property nodes from
// template base nodes on demand, never duplicating a node for the same
// derivation key. The clone-mutate-append-and-cache shape follows
// fb2/stylesheet.go's handling of the FB2 stylesheet cascade in the
// retrieved pack, generalized from CSS-like rule merging to HWPX's
// attribute-node cloning.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ymseo741/mdtohwpx/internal/convconfig"
	"github.com/ymseo741/mdtohwpx/internal/docast"
)

// Format is one bit of an activeFormats set, per §4.2.
type Format int

const (
	Bold Format = 1 << iota
	Italic
	Underline
	Superscript
	Subscript
	ColorBlue
)

// NumberingKind selects which of the two fixed seven-level numbering
// templates createNumbering installs.
type NumberingKind int

const (
	Bullet NumberingKind = iota
	Ordered
)

var bulletGlyphs = []string{"ㅇ", "−", "∙", "●", "○", "■", "●"}
var orderedFormats = []string{"DIGIT", "LATIN_CAPITAL", "ROMAN_SMALL"}

// Registry is the Style Registry & Mutation Cache. One Registry is created
// per conversion and threaded explicitly through the emitter; there is no
// process-wide singleton (§9 "Global mutable state").
type Registry struct {
	header *etree.Document

	charProperties *etree.Element
	paraProperties *etree.Element
	numberings     *etree.Element
	borderFills    *etree.Element

	maxCharPrID int
	maxParaPrID int
	maxNumID    int

	charPrCache  map[string]string
	alignedCache map[docast.Align]string
	quoteCache   map[int]string
	listCache    map[string]string
}

// New builds a Registry over an already-parsed header document, scanning
// it once for the current maximum ids of each collection.
func New(header *etree.Document) *Registry {
	r := &Registry{
		header:       header,
		charPrCache:  map[string]string{},
		alignedCache: map[docast.Align]string{},
		quoteCache:   map[int]string{},
		listCache:    map[string]string{},
	}
	r.charProperties = mustFind(header, "//hh:charProperties")
	r.paraProperties = mustFind(header, "//hh:paraProperties")
	r.numberings = mustFind(header, "//hh:numberings")
	r.borderFills = mustFind(header, "//hh:borderFills")

	r.maxCharPrID = maxID(r.charProperties)
	r.maxParaPrID = maxID(r.paraProperties)
	r.maxNumID = maxID(r.numberings)
	return r
}

func mustFind(doc *etree.Document, path string) *etree.Element {
	if e := doc.FindElement(path); e != nil {
		return e
	}
	// Caller (template.Introspect) guarantees paraProperties/charProperties
	// exist and ensures a numberings container; a nil here is a template
	// that slipped past introspection, so surface an empty placeholder
	// rather than panicking downstream on every append.
	return etree.NewElement("missing")
}

func maxID(collection *etree.Element) int {
	max := -1
	for _, child := range collection.ChildElements() {
		if id, err := strconv.Atoi(child.SelectAttrValue("id", "-1")); err == nil && id > max {
			max = id
		}
	}
	return max
}

// DeriveCharPr implements §4.2 deriveCharPr(baseId, activeFormats). An
// empty format set returns baseID unchanged; a cache hit returns the
// previously minted id.
func (r *Registry) DeriveCharPr(baseID string, formats Format) string {
	if formats == 0 {
		return baseID
	}
	key := fmt.Sprintf("%s|%d", baseID, formats)
	if id, ok := r.charPrCache[key]; ok {
		return id
	}

	base := r.findCharPr(baseID)
	clone := cloneOrNew(base, "hh:charPr")
	r.maxCharPrID++
	newID := strconv.Itoa(r.maxCharPrID)
	clone.CreateAttr("id", newID)

	if formats&Bold != 0 {
		ensureChild(clone, "bold")
	}
	if formats&Italic != 0 {
		ensureChild(clone, "italic")
	}
	if formats&Underline != 0 {
		u := ensureChild(clone, "underline")
		u.CreateAttr("type", "BOTTOM")
		u.CreateAttr("shape", "SOLID")
		u.CreateAttr("color", "#000000")
	}
	if formats&Superscript != 0 {
		ensureChild(clone, "supscript")
		removeChild(clone, "subscript")
	}
	if formats&Subscript != 0 {
		ensureChild(clone, "subscript")
		removeChild(clone, "supscript")
	}
	if formats&ColorBlue != 0 {
		setTextColor(clone, "#0000FF")
		if u := clone.SelectElement("underline"); u != nil {
			u.CreateAttr("color", "#0000FF")
		}
	}

	r.charProperties.AddChild(clone)
	r.charPrCache[key] = newID
	return newID
}

func (r *Registry) findCharPr(id string) *etree.Element {
	if id == "" {
		id = "0"
	}
	for _, cp := range r.charProperties.ChildElements() {
		if cp.SelectAttrValue("id", "") == id {
			return cp
		}
	}
	return nil
}

func cloneOrNew(base *etree.Element, tag string) *etree.Element {
	if base != nil {
		return base.Copy()
	}
	return etree.NewElement(tag)
}

func ensureChild(e *etree.Element, tag string) *etree.Element {
	if c := e.SelectElement(tag); c != nil {
		return c
	}
	return e.CreateElement(tag)
}

func removeChild(e *etree.Element, tag string) {
	if c := e.SelectElement(tag); c != nil {
		e.RemoveChild(c)
	}
}

func setTextColor(e *etree.Element, color string) {
	tc := ensureChild(e, "textColor")
	tc.CreateAttr("value", color)
}

// DeriveAlignedParaPr implements §4.2 deriveAlignedParaPr(align).
func (r *Registry) DeriveAlignedParaPr(align docast.Align) string {
	if id, ok := r.alignedCache[align]; ok {
		return id
	}
	clone := r.cloneNormalParaPr()
	a := ensureChild(clone, "align")
	a.CreateAttr("horizontal", alignName(align))
	id := r.appendParaPr(clone)
	r.alignedCache[align] = id
	return id
}

func alignName(a docast.Align) string {
	switch a {
	case docast.AlignLeft:
		return "LEFT"
	case docast.AlignCenter:
		return "CENTER"
	case docast.AlignRight:
		return "RIGHT"
	default:
		return "LEFT"
	}
}

// DeriveBlockquoteParaPr implements §4.2 deriveBlockquoteParaPr(level).
func (r *Registry) DeriveBlockquoteParaPr(level int) string {
	if id, ok := r.quoteCache[level]; ok {
		return id
	}
	clone := r.cloneNormalParaPr()
	indent := convconfig.BlockquoteLeftIndent + level*convconfig.BlockquoteIndentPerLevel
	addToLeftMargins(clone, indent)
	id := r.appendParaPr(clone)
	r.quoteCache[level] = id
	return id
}

// DeriveListParaPr implements §4.2 listParaPr(numId, level).
func (r *Registry) DeriveListParaPr(numID string, level int) string {
	key := fmt.Sprintf("%s|%d", numID, level)
	if id, ok := r.listCache[key]; ok {
		return id
	}
	clone := r.cloneNormalParaPr()
	heading := ensureChild(clone, "heading")
	heading.CreateAttr("type", "NUMBER")
	heading.CreateAttr("idRef", numID)
	heading.CreateAttr("level", strconv.Itoa(level))

	addToLeftMargins(clone, level*convconfig.ListIndentPerLevel)
	margin := ensureChild(clone, "margin")
	hanging := ensureChild(margin, "intent")
	hanging.CreateAttr("value", strconv.Itoa(-convconfig.ListHangingIndent))
	left := ensureChild(margin, "left")
	left.CreateAttr("value", strconv.Itoa((level+1)*convconfig.ListHangingIndent))

	id := r.appendParaPr(clone)
	r.listCache[key] = id
	return id
}

func (r *Registry) cloneNormalParaPr() *etree.Element {
	base := r.findNormalParaPr()
	return cloneOrNew(base, "hh:paraPr")
}

func (r *Registry) findNormalParaPr() *etree.Element {
	styles := r.header.FindElement("//hh:styles")
	if styles == nil {
		return nil
	}
	for _, s := range styles.ChildElements() {
		if s.SelectAttrValue("name", "") != "Normal" {
			continue
		}
		id := s.SelectAttrValue("paraPrIDRef", "")
		for _, pp := range r.paraProperties.ChildElements() {
			if pp.SelectAttrValue("id", "") == id {
				return pp
			}
		}
	}
	return nil
}

func (r *Registry) appendParaPr(clone *etree.Element) string {
	r.maxParaPrID++
	id := strconv.Itoa(r.maxParaPrID)
	clone.CreateAttr("id", id)
	r.paraProperties.AddChild(clone)
	return id
}

func addToLeftMargins(paraPr *etree.Element, delta int) {
	margin := ensureChild(paraPr, "margin")
	left := ensureChild(margin, "left")
	cur, _ := strconv.Atoi(left.SelectAttrValue("value", "0"))
	left.CreateAttr("value", strconv.Itoa(cur+delta))
}

// CreateNumbering implements §4.2 createNumbering(kind, start): a fixed
// seven-level numbering definition per kind, with the given start value,
// returning its fresh id.
func (r *Registry) CreateNumbering(kind NumberingKind, start int) string {
	r.maxNumID++
	id := strconv.Itoa(r.maxNumID)

	num := etree.NewElement("hh:numbering")
	num.CreateAttr("id", id)
	for level := 0; level < 7; level++ {
		pl := num.CreateElement("paraHead")
		pl.CreateAttr("level", strconv.Itoa(level))
		pl.CreateAttr("start", strconv.Itoa(start))
		if kind == Bullet {
			pl.CreateAttr("text", bulletGlyphs[level])
			pl.CreateAttr("numFormat", "BULLET")
		} else {
			pl.CreateAttr("numFormat", orderedFormats[level%len(orderedFormats)])
		}
	}
	r.numberings.AddChild(num)
	return id
}

// Finalize sets itemCnt on each of the four collections to the true child
// count, per §4.2 "Finalization" and §3 invariant 4. It must run
// unconditionally before the header is serialized, even after a partially
// recovered conversion (§7).
func (r *Registry) Finalize() {
	setItemCnt(r.charProperties)
	setItemCnt(r.paraProperties)
	setItemCnt(r.numberings)
	setItemCnt(r.borderFills)
}

func setItemCnt(collection *etree.Element) {
	if collection == nil || collection.Tag == "missing" {
		return
	}
	collection.CreateAttr("itemCnt", strconv.Itoa(len(collection.ChildElements())))
}

// FormatsFromNames is a small convenience for callers assembling a set from
// the §4.2 format names rather than the bit constants directly. Names are
// matched case-insensitively; unrecognized names are ignored.
func FormatsFromNames(names ...string) Format {
	var f Format
	for _, n := range names {
		switch strings.ToUpper(n) {
		case "BOLD":
			f |= Bold
		case "ITALIC":
			f |= Italic
		case "UNDERLINE":
			f |= Underline
		case "SUPERSCRIPT":
			f |= Superscript
		case "SUBSCRIPT":
			f |= Subscript
		case "COLOR_BLUE":
			f |= ColorBlue
		}
	}
	return f
}
