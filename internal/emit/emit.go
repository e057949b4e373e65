// Package emit walks a docast.Document and appends HWPX body XML to the
// template's section tree, consulting the Template Introspector's Model and
// the Style Registry for every id it writes. The per-block dispatch mirrors
// the switch-on-concrete-type walk convert/epub/xhtml.go uses to turn FB2
// sections into XHTML chapters (§9 "dynamic dispatch on AST variants
// preferred over per-type method lookup").
package emit

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ymseo741/mdtohwpx/internal/convconfig"
	"github.com/ymseo741/mdtohwpx/internal/docast"
	"github.com/ymseo741/mdtohwpx/internal/errs"
	"github.com/ymseo741/mdtohwpx/internal/style"
	"github.com/ymseo741/mdtohwpx/internal/template"
)

// ImageRef is one image the emitter discovered and wants embedded by the
// Container Writer, per §4.3.7.
type ImageRef struct {
	ID   string
	Path string // resolved source path, or "" if unresolved
	Ext  string
}

// Emitter carries the state described in §4.3 "Block Emitter": whether any
// block has been emitted yet (for H1 page breaks) and per-level header
// counters for prefix/table numbering.
type Emitter struct {
	model  *template.Model
	reg    *style.Registry
	limits convconfig.Limits
	log    *zap.Logger
	mdDir  string

	hasEmittedBlock bool
	headerCounters  [10]int

	images     []ImageRef
	imageCount int

	fieldSeq int

	// SourceZip, if set, is the path to a ZIP-packaged Markdown source to
	// search (via container.ResolveImageInZip) when an image path can't be
	// resolved against mdDir, per §4.4's "several well-known internal
	// prefixes" fallback.
	SourceZip string

	tempFiles []string
}

// TempFiles returns the on-disk temp files this Emitter created while
// resolving images (ZIP-sourced lookups), so the caller can remove them
// once the output archive has embedded their contents.
func (e *Emitter) TempFiles() []string { return e.tempFiles }

// New builds an Emitter for one conversion. mdDir is the Markdown source's
// directory, used to resolve relative image paths (§4.3.7).
func New(model *template.Model, reg *style.Registry, limits convconfig.Limits, log *zap.Logger, mdDir string) *Emitter {
	return &Emitter{model: model, reg: reg, limits: limits, log: log, mdDir: mdDir}
}

// Emit walks doc.Blocks and appends paragraphs into body, then performs the
// page-setup injection of §4.3.8. It returns the images discovered along
// the way for the Container Writer to embed.
func (e *Emitter) Emit(doc *docast.Document, body *etree.Element) ([]ImageRef, error) {
	for _, b := range doc.Blocks {
		if err := e.emitBlock(body, b, 0); err != nil {
			return nil, err
		}
	}
	e.injectPageSetup(body)
	return e.images, nil
}

func (e *Emitter) emitBlock(parent *etree.Element, b docast.Block, quoteLevel int) error {
	switch v := b.(type) {
	case docast.Header:
		return e.emitHeader(parent, v)
	case docast.Paragraph:
		return e.emitParagraph(parent, v.Inlines, quoteLevel)
	case docast.Plain:
		return e.emitParagraph(parent, v.Inlines, quoteLevel)
	case docast.BulletList:
		return e.emitList(parent, false, 1, v.Items, 0)
	case docast.OrderedList:
		start := v.Start
		if start == 0 {
			start = 1
		}
		return e.emitList(parent, true, start, v.Items, 0)
	case docast.BlockQuote:
		return e.emitBlockQuote(parent, v, quoteLevel)
	case docast.CodeBlock:
		return e.emitCodeBlock(parent, v, quoteLevel)
	case docast.Table:
		return e.emitTable(parent, v)
	case docast.HorizontalRule:
		e.emitHorizontalRule(parent)
		return nil
	default:
		// Unknown block variants are silently skipped per §7.
		return nil
	}
}

func (e *Emitter) emitHeader(body *etree.Element, h docast.Header) error {
	level := h.Level
	inlines := h.Inlines
	columnBreak := false
	if len(inlines) > 0 {
		if _, ok := inlines[0].(docast.LineBreak); ok {
			columnBreak = true
			inlines = inlines[1:]
		}
	}

	pageBreak := level == 1 && e.hasEmittedBlock && e.limits.PageBreakBeforeH1
	e.headerCounters[level]++
	for l := level + 1; l <= 9; l++ {
		e.headerCounters[l] = 0
	}
	counter := e.headerCounters[level]

	placeholder := e.model.Placeholders[fmt.Sprintf("H%d", level)]

	var para *etree.Element
	switch {
	case placeholder != nil && placeholder.Mode == template.ModeTable:
		para = e.emitHeaderTable(body, placeholder, level, counter, inlines)
	case placeholder != nil && (placeholder.Mode == template.ModePlain || placeholder.Mode == template.ModePrefix):
		para = e.newParagraph(body, placeholder.StyleID, placeholder.ParaPrID)
		if placeholder.Mode == template.ModePrefix {
			prefixCharPr := placeholder.PrefixCharPrID
			if prefixCharPr == "" {
				prefixCharPr = placeholder.CharPrID
			}
			e.emitTextRun(para, formatCounter(placeholder.Prefix, counter), prefixCharPr)
		}
		e.emitInlines(para, inlines, placeholder.CharPrID, 0)
	default:
		if level-1 >= len(e.model.OutlineStyleMap) {
			return errs.ConversionErrorf("no template style or outline entry for heading level %d", level)
		}
		entry := e.model.OutlineStyleMap[level-1]
		para = e.newParagraph(body, entry.StyleID, entry.ParaPrID)
		e.emitInlines(para, inlines, entry.CharPrID, 0)
	}

	if pageBreak {
		setParaFlag(para, "pageBreak", "1")
	}
	if columnBreak {
		setParaFlag(para, "columnBreak", "1")
	}
	e.hasEmittedBlock = true
	return nil
}

// emitHeaderTable implements the table-mode heading path of §4.3.1: deep
// copy the captured table template, strip template-only descendants,
// substitute the numbering-text cell and the {{H<n>}} cell, and wrap the
// result in a paragraph/run so page-setup injection still finds a run.
func (e *Emitter) emitHeaderTable(body *etree.Element, ph *template.Placeholder, level, counter int, inlines []docast.Inline) *etree.Element {
	tbl := ph.TableTemplate.Copy()
	stripTemplateDescendants(tbl)

	if ph.NumberingText != "" {
		for _, t := range tbl.FindElements(".//hp:t") {
			if t.Text() == ph.NumberingText {
				t.SetText(formatCounter(ph.NumberingText, counter))
				break
			}
		}
	}

	target := fmt.Sprintf("{{H%d}}", level)
	for _, t := range tbl.FindElements(".//hp:t") {
		if t.Text() != target {
			continue
		}
		t.SetText(inlinesPlainText(inlines))
		if para := ancestorTag(t, "p"); para != nil {
			para.CreateAttr("paraPrIDRef", ph.ParaPrID)
			para.CreateAttr("styleIDRef", ph.StyleID)
		}
		if run := ancestorTag(t, "run"); run != nil {
			run.CreateAttr("charPrIDRef", ph.CharPrID)
		}
		break
	}

	para := etree.NewElement("hp:p")
	run := para.CreateElement("hp:run")
	run.AddChild(tbl)
	body.AddChild(para)
	return para
}

func stripTemplateDescendants(tbl *etree.Element) {
	for _, tag := range []string{"secPr", "linesegarray", "ctrl"} {
		for _, e := range tbl.FindElements(".//" + tag) {
			if p := e.Parent(); p != nil {
				p.RemoveChild(e)
			}
		}
	}
	for _, label := range tbl.ChildElements() {
		if label.Tag == "label" {
			tbl.RemoveChild(label)
		}
	}
}

func ancestorTag(e *etree.Element, tag string) *etree.Element {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Tag == tag || p.Tag == "hp:"+tag {
			return p
		}
	}
	return nil
}

func (e *Emitter) emitParagraph(parent *etree.Element, inlines []docast.Inline, quoteLevel int) error {
	var styleID, paraPrID, charPrID string
	if quoteLevel > 0 {
		paraPrID = e.reg.DeriveBlockquoteParaPr(quoteLevel - 1)
	}
	if body := e.model.Placeholders["BODY"]; body != nil {
		styleID = body.StyleID
		if paraPrID == "" {
			paraPrID = body.ParaPrID
		}
		charPrID = body.CharPrID
	}
	para := e.newParagraph(parent, styleID, paraPrID)
	e.emitInlines(para, inlines, charPrID, 0)
	e.hasEmittedBlock = true
	return nil
}

func (e *Emitter) emitBlockQuote(parent *etree.Element, bq docast.BlockQuote, quoteLevel int) error {
	for _, b := range bq.Blocks {
		if err := e.emitBlock(parent, b, quoteLevel+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitCodeBlock(parent *etree.Element, cb docast.CodeBlock, quoteLevel int) error {
	return e.emitParagraph(parent, []docast.Inline{docast.Code{Text: cb.Text}}, quoteLevel)
}

// emitHorizontalRule emits two empty paragraphs as a visual spacer, per
// §4.3.6.
func (e *Emitter) emitHorizontalRule(parent *etree.Element) {
	e.newParagraph(parent, "", "")
	e.newParagraph(parent, "", "")
	e.hasEmittedBlock = true
}

func (e *Emitter) newParagraph(parent *etree.Element, styleID, paraPrID string) *etree.Element {
	p := etree.NewElement("hp:p")
	if styleID != "" {
		p.CreateAttr("styleIDRef", styleID)
	}
	if paraPrID != "" {
		p.CreateAttr("paraPrIDRef", paraPrID)
	}
	parent.AddChild(p)
	return p
}

func setParaFlag(para *etree.Element, name, value string) {
	if para == nil {
		return
	}
	para.CreateAttr(name, value)
}

func (e *Emitter) nextFieldID() string {
	e.fieldSeq++
	return uuid.NewString()
}

func inlinesPlainText(inlines []docast.Inline) string {
	var buf []rune
	for _, in := range inlines {
		buf = append(buf, []rune(inlinePlainText(in))...)
	}
	return string(buf)
}

func inlinePlainText(in docast.Inline) string {
	switch v := in.(type) {
	case docast.Str:
		return v.Text
	case docast.Space:
		return " "
	case docast.SoftBreak:
		return " "
	case docast.Code:
		return v.Text
	case docast.Strong:
		return inlinesPlainText(v.Inlines)
	case docast.Emph:
		return inlinesPlainText(v.Inlines)
	case docast.Underline:
		return inlinesPlainText(v.Inlines)
	case docast.Strikeout:
		return inlinesPlainText(v.Inlines)
	case docast.Superscript:
		return inlinesPlainText(v.Inlines)
	case docast.Subscript:
		return inlinesPlainText(v.Inlines)
	case docast.Link:
		return inlinesPlainText(v.Inlines)
	default:
		return ""
	}
}
