// Package template introspects a reference HWPX's header and section XML,
// discovering placeholder styles and the outline-level chain the emitter
// needs to style headings, lists, tables, and plain paragraphs. It mirrors
// the way fb2.ParseBook walks an etree.Document built from a raw XML byte
// slice and builds lookup maps from it (see fb2/parse.go in the retrieved
// pack), generalized from FB2's fixed schema to HWPX's placeholder regex
// scan (specification §4.1, §9 "placeholder discovery via regex").
package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ymseo741/mdtohwpx/internal/errs"
)

// Mode is how a discovered placeholder's style should be applied by the
// emitter.
type Mode int

const (
	ModePlain Mode = iota
	ModePrefix
	ModeTable
	ModeNumbering
)

// OutlineEntry is one level of the template's heading-outline chain.
type OutlineEntry struct {
	StyleID   string
	ParaPrID  string
	CharPrID  string
}

// Placeholder is the resolved style information captured for one
// "{{NAME}}" token found in the template.
type Placeholder struct {
	Name    string
	Mode    Mode
	StyleID string
	ParaPrID string
	CharPrID string

	Prefix         string
	PrefixCharPrID string

	BorderFillID string
	CellMargin   *etree.Element

	TableTemplate  *etree.Element
	NumberingText  string

	NumID string // set when Mode == ModeNumbering
}

// Model is everything the Style Registry and Block Emitter need from the
// template, per specification §3 "Template model".
type Model struct {
	Header  *etree.Document
	Section *etree.Document

	OutlineStyleMap []OutlineEntry

	Placeholders map[string]*Placeholder

	TableBorderFillID string
	TemplateTableWidth int

	PageSetupFragment []*etree.Element
}

// Placeholder regexes match as substrings, not whole strings: a placeholder
// token often shares a run with manually-typed prefix text (list numbering,
// bullet glyphs), and the text preceding the match in that same run is the
// placeholder's prefix per §4.1.
var (
	reCell     = regexp.MustCompile(`\{\{CELL_([A-Z]+)_([A-Z]+)\}\}`)
	reHeading  = regexp.MustCompile(`\{\{H([1-9])\}\}`)
	reList     = regexp.MustCompile(`\{\{LIST_(BULLET|ORDERED)_([1-7])\}\}`)
	reGeneric  = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
	rePlaceAny = regexp.MustCompile(`\{\{[A-Za-z0-9_]+\}\}`)
)

// Introspect parses the template's header.xml and section0.xml bytes and
// builds the Model described in specification §3/§4.1.
func Introspect(headerXML, sectionXML []byte) (*Model, error) {
	header := etree.NewDocument()
	if err := header.ReadFromBytes(headerXML); err != nil {
		return nil, errs.Wrap(errs.Template, err, "parsing header.xml")
	}
	section := etree.NewDocument()
	if err := section.ReadFromBytes(sectionXML); err != nil {
		return nil, errs.Wrap(errs.Template, err, "parsing section0.xml")
	}

	m := &Model{
		Header:       header,
		Section:      section,
		Placeholders: map[string]*Placeholder{},
	}

	styleByParaPr, err := buildStyleIndex(header)
	if err != nil {
		return nil, err
	}
	if err := checkNormalCharPr(header); err != nil {
		return nil, err
	}

	outline, err := discoverOutline(header, section, styleByParaPr)
	if err != nil {
		return nil, err
	}
	m.OutlineStyleMap = outline

	scanTables(m, section)
	scanListParagraphs(m, section, header)
	scanOtherParagraphs(m, section)

	extractPageSetup(m, section)

	if err := appendTableBorderFill(m, header); err != nil {
		return nil, err
	}
	ensureNumberingsContainer(header)

	return m, nil
}

type styleInfo struct {
	styleID  string
	charPrID string
}

// buildStyleIndex maps paraPrIDRef -> {styleId, charPrId} by scanning the
// header's <hh:style> collection.
func buildStyleIndex(header *etree.Document) (map[string]styleInfo, error) {
	styles := header.FindElement("//hh:styles")
	if styles == nil {
		return nil, errs.TemplateErrorf("header.xml has no styles collection")
	}
	idx := make(map[string]styleInfo)
	for _, style := range styles.ChildElements() {
		paraPrID := style.SelectAttrValue("paraPrIDRef", "")
		idx[paraPrID] = styleInfo{
			styleID:  style.SelectAttrValue("id", ""),
			charPrID: style.SelectAttrValue("charPrIDRef", ""),
		}
	}
	return idx, nil
}

func checkNormalCharPr(header *etree.Document) error {
	normal := normalCharPr(header)
	if normal == nil {
		return nil
	}
	dirty := []string{"bold", "italic", "underline", "supscript", "subscript"}
	for _, tag := range dirty {
		if normal.SelectElement(tag) != nil {
			return errs.StyleErrorf("template's Normal character property carries a %s mark", tag)
		}
	}
	return nil
}

func normalCharPr(header *etree.Document) *etree.Element {
	for _, style := range header.FindElements("//hh:style") {
		if style.SelectAttrValue("name", "") != "Normal" {
			continue
		}
		id := style.SelectAttrValue("charPrIDRef", "")
		for _, cp := range header.FindElements("//hh:charPr") {
			if cp.SelectAttrValue("id", "") == id {
				return cp
			}
		}
	}
	return nil
}

// discoverOutline builds outlineStyleMap per §4.1: enumerate paragraph
// property nodes, find the first occurrence of each OUTLINE heading level,
// join through the style index, and validate contiguity from 0.
func discoverOutline(header, _ *etree.Document, styleByParaPr map[string]styleInfo) ([]OutlineEntry, error) {
	levelToParaPr := map[int]string{}
	for _, paraPr := range header.FindElements("//hh:paraPr") {
		heading := paraPr.SelectElement("heading")
		if heading == nil || heading.SelectAttrValue("type", "") != "OUTLINE" {
			continue
		}
		lvl, err := strconv.Atoi(heading.SelectAttrValue("level", "-1"))
		if err != nil {
			continue
		}
		id := paraPr.SelectAttrValue("id", "")
		if _, ok := levelToParaPr[lvl]; !ok {
			levelToParaPr[lvl] = id
		}
	}
	if len(levelToParaPr) == 0 {
		return nil, nil
	}

	max := -1
	for lvl := range levelToParaPr {
		if lvl > max {
			max = lvl
		}
	}
	entries := make([]OutlineEntry, max+1)
	for lvl := 0; lvl <= max; lvl++ {
		paraPrID, ok := levelToParaPr[lvl]
		if !ok {
			return nil, errs.StyleErrorf("template outline levels have a gap at level %d", lvl)
		}
		info := styleByParaPr[paraPrID]
		entries[lvl] = OutlineEntry{StyleID: info.styleID, ParaPrID: paraPrID, CharPrID: info.charPrID}
	}
	return entries, nil
}

// scanTables implements the table placeholder scan of §4.1: CELL_* styles,
// H<n> table-mode headings, and numbering text capture.
func scanTables(m *Model, section *etree.Document) {
	for _, table := range section.FindElements("//hp:tbl") {
		var numberingText string
		var numberingTextSet bool
		width := tableWidth(table)
		var sawCellPlaceholder bool
		var headingPlaceholders []*Placeholder

		for _, cell := range table.FindElements(".//hp:tc") {
			for _, para := range cell.FindElements(".//hp:p") {
				for _, run := range para.FindElements("./hp:run") {
					for _, t := range run.FindElements("./hp:t") {
						text := strings.TrimSpace(t.Text())
						if text == "" {
							continue
						}
						if hm := reCell.FindStringSubmatch(text); hm != nil {
							sawCellPlaceholder = true
							name := fmt.Sprintf("CELL_%s_%s", hm[1], hm[2])
							m.Placeholders[name] = &Placeholder{
								Name:         name,
								Mode:         ModePlain,
								StyleID:      para.SelectAttrValue("styleIDRef", ""),
								ParaPrID:     para.SelectAttrValue("paraPrIDRef", ""),
								CharPrID:     run.SelectAttrValue("charPrIDRef", ""),
								BorderFillID: cell.SelectAttrValue("borderFillIDRef", ""),
								CellMargin:   cell.SelectElement("cellMargin"),
							}
							continue
						}
						if hm := reHeading.FindStringSubmatch(text); hm != nil {
							level, _ := strconv.Atoi(hm[1])
							name := fmt.Sprintf("H%d", level)
							clone := table.Copy()
							ph := &Placeholder{
								Name:          name,
								Mode:          ModeTable,
								StyleID:       para.SelectAttrValue("styleIDRef", ""),
								ParaPrID:      para.SelectAttrValue("paraPrIDRef", ""),
								CharPrID:      run.SelectAttrValue("charPrIDRef", ""),
								TableTemplate: clone,
							}
							m.Placeholders[name] = ph
							headingPlaceholders = append(headingPlaceholders, ph)
							continue
						}
						if !rePlaceAny.MatchString(text) && !numberingTextSet {
							numberingText = text
							numberingTextSet = true
						}
					}
				}
			}
		}
		if numberingTextSet {
			for _, ph := range headingPlaceholders {
				ph.NumberingText = numberingText
			}
		}
		if sawCellPlaceholder && width > 0 {
			m.TemplateTableWidth = width
		}
	}
}

func tableWidth(table *etree.Element) int {
	sz := table.FindElement(".//hp:sz")
	if sz == nil {
		return 0
	}
	w, _ := strconv.Atoi(sz.SelectAttrValue("width", "0"))
	return w
}

// scanListParagraphs implements the list-placeholder scan of §4.1.
func scanListParagraphs(m *Model, section, header *etree.Document) {
	for _, para := range section.FindElements("//hp:p") {
		// Skip paragraphs already inside a table; those belong to scanTables.
		if isInsideTable(para) {
			continue
		}
		for _, run := range para.FindElements("./hp:run") {
			for _, t := range run.FindElements("./hp:t") {
				text := t.Text()
				lm := reList.FindStringSubmatch(strings.TrimSpace(text))
				if lm == nil {
					continue
				}
				kind := lm[1]
				lvl := lm[2]
				name := fmt.Sprintf("LIST_%s_%s", kind, lvl)

				prefix, prefixCharPrID := listPrefix(para, run, text, lm[0])

				ph := &Placeholder{
					Name:           name,
					StyleID:        para.SelectAttrValue("styleIDRef", ""),
					ParaPrID:       para.SelectAttrValue("paraPrIDRef", ""),
					CharPrID:       run.SelectAttrValue("charPrIDRef", ""),
					Prefix:         prefix,
					PrefixCharPrID: prefixCharPrID,
				}
				if numID := numberingRef(header, ph.ParaPrID); numID != "" {
					ph.Mode = ModeNumbering
					ph.NumID = numID
				} else {
					ph.Mode = ModePrefix
				}
				m.Placeholders[name] = ph
			}
		}
	}
}

func isInsideTable(e *etree.Element) bool {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "tbl" {
			return true
		}
	}
	return false
}

// listPrefix finds the text preceding the placeholder match: in the same
// run if present, else the concatenation of all preceding runs' text in
// the paragraph, per §4.1.
func listPrefix(para, run *etree.Element, runText, match string) (string, string) {
	if idx := strings.Index(runText, match); idx > 0 {
		return runText[:idx], run.SelectAttrValue("charPrIDRef", "")
	}
	var sb strings.Builder
	var firstCharPrID string
	for _, r := range para.FindElements("./hp:run") {
		if r == run {
			break
		}
		if firstCharPrID == "" {
			firstCharPrID = r.SelectAttrValue("charPrIDRef", "")
		}
		for _, t := range r.FindElements("./hp:t") {
			sb.WriteString(t.Text())
		}
	}
	return sb.String(), firstCharPrID
}

func numberingRef(header *etree.Document, paraPrID string) string {
	for _, paraPr := range header.FindElements("//hh:paraPr") {
		if paraPr.SelectAttrValue("id", "") != paraPrID {
			continue
		}
		heading := paraPr.SelectElement("heading")
		if heading != nil && heading.SelectAttrValue("type", "") == "NUMBER" {
			return heading.SelectAttrValue("idRef", "")
		}
	}
	return ""
}

// scanOtherParagraphs implements the heading/generic placeholder scan of
// §4.1 for placeholders not already captured by scanTables.
func scanOtherParagraphs(m *Model, section *etree.Document) {
	for _, para := range section.FindElements("//hp:p") {
		if isInsideTable(para) {
			continue
		}
		for _, run := range para.FindElements("./hp:run") {
			for _, t := range run.FindElements("./hp:t") {
				text := strings.TrimSpace(t.Text())
				if reList.MatchString(text) {
					continue
				}
				var name string
				if hm := reHeading.FindStringSubmatch(text); hm != nil {
					name = fmt.Sprintf("H%s", hm[1])
				} else if gm := reGeneric.FindStringSubmatch(text); gm != nil {
					name = gm[1]
				} else {
					continue
				}
				if _, exists := m.Placeholders[name]; exists {
					continue
				}
				fullText := t.Text()
				placeholderText := "{{" + name + "}}"
				mode := ModePlain
				prefix := ""
				var prefixCharPrID string
				if idx := strings.Index(fullText, placeholderText); idx > 0 {
					prefix = fullText[:idx]
					mode = ModePrefix
					prefixCharPrID = run.SelectAttrValue("charPrIDRef", "")
				}
				m.Placeholders[name] = &Placeholder{
					Name:           name,
					Mode:           mode,
					StyleID:        para.SelectAttrValue("styleIDRef", ""),
					ParaPrID:       para.SelectAttrValue("paraPrIDRef", ""),
					CharPrID:       run.SelectAttrValue("charPrIDRef", ""),
					Prefix:         prefix,
					PrefixCharPrID: prefixCharPrID,
				}
			}
		}
	}
}

// extractPageSetup takes the first paragraph's first run's secPr/ctrl
// children, per §4.1 "Page setup extraction".
func extractPageSetup(m *Model, section *etree.Document) {
	para := section.FindElement("//hp:p")
	if para == nil {
		return
	}
	run := para.FindElement("./hp:run")
	if run == nil {
		return
	}
	for _, child := range run.ChildElements() {
		if strings.HasSuffix(child.Tag, "secPr") || strings.HasSuffix(child.Tag, "ctrl") {
			m.PageSetupFragment = append(m.PageSetupFragment, child.Copy())
		}
	}
}

// appendTableBorderFill appends a fully-bordered cell border-fill to the
// header's border-fill list and records its id, per §4.1 "Header mutations
// performed at this stage".
func appendTableBorderFill(m *Model, header *etree.Document) error {
	list := header.FindElement("//hh:borderFills")
	if list == nil {
		return errs.TemplateErrorf("header.xml has no borderFills collection")
	}
	maxID := 0
	for _, bf := range list.ChildElements() {
		if id, err := strconv.Atoi(bf.SelectAttrValue("id", "0")); err == nil && id > maxID {
			maxID = id
		}
	}
	newID := strconv.Itoa(maxID + 1)
	bf := etree.NewElement("hh:borderFill")
	bf.CreateAttr("id", newID)
	for _, side := range []string{"leftBorder", "rightBorder", "topBorder", "bottomBorder"} {
		b := bf.CreateElement(side)
		b.CreateAttr("type", "SOLID")
		b.CreateAttr("width", "0.1mm")
		b.CreateAttr("color", "#000000")
	}
	list.AddChild(bf)
	m.TableBorderFillID = newID
	return nil
}

func ensureNumberingsContainer(header *etree.Document) {
	if header.FindElement("//hh:numberings") != nil {
		return
	}
	refList := header.FindElement("//hh:refList")
	if refList == nil {
		return
	}
	refList.AddChild(etree.NewElement("hh:numberings"))
}
