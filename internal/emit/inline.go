package emit

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/ymseo741/mdtohwpx/internal/docast"
	"github.com/ymseo741/mdtohwpx/internal/style"
)

// emitInlines walks a run of inline AST nodes, accumulating an
// activeFormats bitmask per §4.3.3 and emitting text/field runs into para.
func (e *Emitter) emitInlines(para *etree.Element, inlines []docast.Inline, baseCharPrID string, active style.Format) {
	for _, in := range inlines {
		e.emitInline(para, in, baseCharPrID, active)
	}
}

func (e *Emitter) emitInline(para *etree.Element, in docast.Inline, baseCharPrID string, active style.Format) {
	switch v := in.(type) {
	case docast.Str:
		e.emitTextRun(para, v.Text, e.reg.DeriveCharPr(baseCharPrID, active))
	case docast.Space:
		e.emitTextRun(para, " ", e.reg.DeriveCharPr(baseCharPrID, active))
	case docast.SoftBreak:
		e.emitTextRun(para, " ", e.reg.DeriveCharPr(baseCharPrID, active))
	case docast.LineBreak:
		run := e.newRun(para, e.reg.DeriveCharPr(baseCharPrID, active))
		run.CreateElement("lineBreak")
	case docast.Strong:
		e.emitInlines(para, v.Inlines, baseCharPrID, active|style.Bold)
	case docast.Emph:
		e.emitInlines(para, v.Inlines, baseCharPrID, active|style.Italic)
	case docast.Underline:
		e.emitInlines(para, v.Inlines, baseCharPrID, active|style.Underline)
	case docast.Strikeout:
		// No dedicated strikeout format bit is defined in §4.2; render with
		// the currently active marks, matching the "Unknown variants are
		// silently skipped" tolerance for formatting the spec doesn't wire
		// through deriveCharPr.
		e.emitInlines(para, v.Inlines, baseCharPrID, active)
	case docast.Superscript:
		e.emitInlines(para, v.Inlines, baseCharPrID, active|style.Superscript)
	case docast.Subscript:
		e.emitInlines(para, v.Inlines, baseCharPrID, active|style.Subscript)
	case docast.Code:
		e.emitTextRun(para, v.Text, e.reg.DeriveCharPr(baseCharPrID, active))
	case docast.Link:
		e.emitLink(para, v, baseCharPrID, active)
	case docast.Image:
		e.emitImage(para, v, baseCharPrID, active)
	case docast.Note:
		e.emitNote(para, v, baseCharPrID, active)
	default:
		// Unknown inline variants are silently skipped per §7.
	}
}

// emitLink implements the field-begin/field-end hyperlink wrapping of
// §4.3.3: UNDERLINE+COLOR_BLUE pushed for the link text, with a field-begin
// control run carrying the escaped command string ahead of it and a
// field-end run referencing the same field id after it.
func (e *Emitter) emitLink(para *etree.Element, link docast.Link, baseCharPrID string, active style.Format) {
	fieldID := e.nextFieldID()
	command := escapeFieldCommand(link.URL) + ";1;5;-1;"

	begin := e.newRun(para, e.reg.DeriveCharPr(baseCharPrID, active))
	ctrl := begin.CreateElement("ctrl")
	fieldBegin := ctrl.CreateElement("fieldBegin")
	fieldBegin.CreateAttr("id", fieldID)
	fieldBegin.CreateAttr("command", command)
	param := fieldBegin.CreateElement("parameters")
	pathParam := param.CreateElement("stringParam")
	pathParam.CreateAttr("name", "Path")
	pathParam.SetText(link.URL)

	linkFormats := active | style.Underline | style.ColorBlue
	e.emitInlines(para, link.Inlines, baseCharPrID, linkFormats)

	end := e.newRun(para, e.reg.DeriveCharPr(baseCharPrID, active))
	endCtrl := end.CreateElement("ctrl")
	fieldEnd := endCtrl.CreateElement("fieldEnd")
	fieldEnd.CreateAttr("beginIDRef", fieldID)
}

// escapeFieldCommand backslash-escapes ':' and '?' the way HWPX field
// command strings require, per S4 in §8.
func escapeFieldCommand(url string) string {
	r := strings.NewReplacer(":", `\:`, "?", `\?`)
	return r.Replace(url)
}

func (e *Emitter) emitNote(para *etree.Element, note docast.Note, baseCharPrID string, active style.Format) {
	footnote := e.newRun(para, e.reg.DeriveCharPr(baseCharPrID, active)).CreateElement("footNote")
	sublist := footnote.CreateElement("subList")
	for _, b := range note.Blocks {
		_ = e.emitBlock(sublist, b, 0)
	}
}

func (e *Emitter) newRun(para *etree.Element, charPrID string) *etree.Element {
	run := etree.NewElement("hp:run")
	if charPrID != "" {
		run.CreateAttr("charPrIDRef", charPrID)
	}
	para.AddChild(run)
	return run
}

func (e *Emitter) emitTextRun(para *etree.Element, text, charPrID string) {
	run := e.newRun(para, charPrID)
	t := run.CreateElement("hp:t")
	t.SetText(text)
}
