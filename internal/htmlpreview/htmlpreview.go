// Package htmlpreview renders a docast.Document to a standalone debug HTML
// page, one of the supplemented features in SPEC_FULL.md ("-o file.html").
// It walks the same closed Block/Inline variant set the Block Emitter does,
// writing tags by hand into a strings.Builder and escaping text and
// attribute values with html.EscapeString; there is no office-suite
// header/style model to thread through.
package htmlpreview

import (
	"fmt"
	"html"
	"strings"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

// Render produces a minimal standalone HTML document for doc, useful for
// eyeballing the AST's structure without opening an office suite.
func Render(doc *docast.Document) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	if doc.Meta.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(doc.Meta.Title))
	}
	b.WriteString("</head><body>\n")
	for _, blk := range doc.Blocks {
		renderBlock(&b, blk, 0)
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

func renderBlock(b *strings.Builder, blk docast.Block, quoteLevel int) {
	switch v := blk.(type) {
	case docast.Header:
		tag := fmt.Sprintf("h%d", clampLevel(v.Level))
		fmt.Fprintf(b, "<%s>", tag)
		renderInlines(b, v.Inlines)
		fmt.Fprintf(b, "</%s>\n", tag)
	case docast.Paragraph:
		b.WriteString("<p>")
		renderInlines(b, v.Inlines)
		b.WriteString("</p>\n")
	case docast.Plain:
		renderInlines(b, v.Inlines)
		b.WriteString("\n")
	case docast.BulletList:
		b.WriteString("<ul>\n")
		for _, item := range v.Items {
			b.WriteString("<li>")
			for _, ib := range item {
				renderBlock(b, ib, quoteLevel)
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n")
	case docast.OrderedList:
		fmt.Fprintf(b, "<ol start=\"%d\">\n", v.Start)
		for _, item := range v.Items {
			b.WriteString("<li>")
			for _, ib := range item {
				renderBlock(b, ib, quoteLevel)
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</ol>\n")
	case docast.BlockQuote:
		b.WriteString("<blockquote>\n")
		for _, ib := range v.Blocks {
			renderBlock(b, ib, quoteLevel+1)
		}
		b.WriteString("</blockquote>\n")
	case docast.CodeBlock:
		class := ""
		if len(v.Classes) > 0 {
			class = fmt.Sprintf(" class=\"language-%s\"", html.EscapeString(v.Classes[0]))
		}
		fmt.Fprintf(b, "<pre><code%s>%s</code></pre>\n", class, html.EscapeString(v.Text))
	case docast.Table:
		renderTable(b, v)
	case docast.HorizontalRule:
		b.WriteString("<hr>\n")
	default:
		// Unknown block variants are silently skipped per §7.
	}
}

func renderTable(b *strings.Builder, t docast.Table) {
	b.WriteString("<table>\n")
	renderRows(b, "thead", t.HeadRows)
	renderRows(b, "tbody", t.BodyRows)
	renderRows(b, "tfoot", t.FootRows)
	b.WriteString("</table>\n")
}

func renderRows(b *strings.Builder, section string, rows []docast.Row) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "<%s>\n", section)
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row.Cells {
			attrs := alignAttr(cell.Align)
			if cell.ColSpan > 1 {
				attrs += fmt.Sprintf(" colspan=\"%d\"", cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				attrs += fmt.Sprintf(" rowspan=\"%d\"", cell.RowSpan)
			}
			fmt.Fprintf(b, "<td%s>", attrs)
			for _, blk := range cell.Blocks {
				renderBlock(b, blk, 0)
			}
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	fmt.Fprintf(b, "</%s>\n", section)
}

func alignAttr(a docast.Align) string {
	switch a {
	case docast.AlignLeft:
		return " style=\"text-align:left\""
	case docast.AlignCenter:
		return " style=\"text-align:center\""
	case docast.AlignRight:
		return " style=\"text-align:right\""
	default:
		return ""
	}
}

func renderInlines(b *strings.Builder, inlines []docast.Inline) {
	for _, in := range inlines {
		renderInline(b, in)
	}
}

func renderInline(b *strings.Builder, in docast.Inline) {
	switch v := in.(type) {
	case docast.Str:
		b.WriteString(html.EscapeString(v.Text))
	case docast.Space:
		b.WriteString(" ")
	case docast.SoftBreak:
		b.WriteString(" ")
	case docast.LineBreak:
		b.WriteString("<br>")
	case docast.Strong:
		wrap(b, "strong", v.Inlines)
	case docast.Emph:
		wrap(b, "em", v.Inlines)
	case docast.Underline:
		wrap(b, "u", v.Inlines)
	case docast.Strikeout:
		wrap(b, "s", v.Inlines)
	case docast.Superscript:
		wrap(b, "sup", v.Inlines)
	case docast.Subscript:
		wrap(b, "sub", v.Inlines)
	case docast.Code:
		fmt.Fprintf(b, "<code>%s</code>", html.EscapeString(v.Text))
	case docast.Link:
		fmt.Fprintf(b, "<a href=\"%s\">", html.EscapeString(v.URL))
		renderInlines(b, v.Inlines)
		b.WriteString("</a>")
	case docast.Image:
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">", html.EscapeString(v.URL), html.EscapeString(v.Title))
	case docast.Note:
		b.WriteString("<sup>[note: ")
		for _, blk := range v.Blocks {
			renderBlock(b, blk, 0)
		}
		b.WriteString("]</sup>")
	default:
		// Unknown inline variants are silently skipped per §7.
	}
}

func wrap(b *strings.Builder, tag string, inlines []docast.Inline) {
	fmt.Fprintf(b, "<%s>", tag)
	renderInlines(b, inlines)
	fmt.Fprintf(b, "</%s>", tag)
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
