package convert

import (
	"encoding/json"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

// ToJSON renders doc as a Pandoc-AST-flavored JSON document, one of the
// supplemented debug outputs named in SPEC_FULL.md ("-o file.json"). Since
// docast.Block/Inline are closed interfaces, encoding/json cannot discriminate
// them on its own; each node is converted to a tagged map first.
func ToJSON(doc *docast.Document) string {
	out := map[string]any{
		"meta":   map[string]any{"title": doc.Meta.Title, "raw": doc.Meta.Raw},
		"blocks": blocksToJSON(doc.Blocks),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func blocksToJSON(blocks []docast.Block) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockToJSON(b))
	}
	return out
}

func blockToJSON(b docast.Block) map[string]any {
	switch v := b.(type) {
	case docast.Header:
		return tag("Header", map[string]any{"level": v.Level, "inlines": inlinesToJSON(v.Inlines)})
	case docast.Paragraph:
		return tag("Paragraph", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Plain:
		return tag("Plain", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.BulletList:
		return tag("BulletList", map[string]any{"items": itemsToJSON(v.Items)})
	case docast.OrderedList:
		return tag("OrderedList", map[string]any{"start": v.Start, "items": itemsToJSON(v.Items)})
	case docast.BlockQuote:
		return tag("BlockQuote", map[string]any{"blocks": blocksToJSON(v.Blocks)})
	case docast.CodeBlock:
		return tag("CodeBlock", map[string]any{"classes": v.Classes, "text": v.Text})
	case docast.Table:
		return tag("Table", map[string]any{
			"colspecs": colSpecsToJSON(v.ColSpecs),
			"head":     rowsToJSON(v.HeadRows),
			"body":     rowsToJSON(v.BodyRows),
			"foot":     rowsToJSON(v.FootRows),
		})
	case docast.HorizontalRule:
		return tag("HorizontalRule", nil)
	default:
		return tag("Unknown", nil)
	}
}

func itemsToJSON(items [][]docast.Block) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, blocksToJSON(item))
	}
	return out
}

func colSpecsToJSON(specs []docast.ColSpec) []any {
	out := make([]any, 0, len(specs))
	for _, s := range specs {
		out = append(out, map[string]any{
			"align":          alignName(s.Align),
			"width":          s.Width,
			"widthIsDefault": s.WidthIsDefault,
		})
	}
	return out
}

func rowsToJSON(rows []docast.Row) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		cells := make([]any, 0, len(r.Cells))
		for _, c := range r.Cells {
			cells = append(cells, map[string]any{
				"align":   alignName(c.Align),
				"rowspan": c.RowSpan,
				"colspan": c.ColSpan,
				"blocks":  blocksToJSON(c.Blocks),
			})
		}
		out = append(out, map[string]any{"cells": cells})
	}
	return out
}

func alignName(a docast.Align) string {
	switch a {
	case docast.AlignLeft:
		return "left"
	case docast.AlignCenter:
		return "center"
	case docast.AlignRight:
		return "right"
	default:
		return "default"
	}
}

func inlinesToJSON(inlines []docast.Inline) []any {
	out := make([]any, 0, len(inlines))
	for _, in := range inlines {
		out = append(out, inlineToJSON(in))
	}
	return out
}

func inlineToJSON(in docast.Inline) map[string]any {
	switch v := in.(type) {
	case docast.Str:
		return tag("Str", map[string]any{"text": v.Text})
	case docast.Space:
		return tag("Space", nil)
	case docast.SoftBreak:
		return tag("SoftBreak", nil)
	case docast.LineBreak:
		return tag("LineBreak", nil)
	case docast.Strong:
		return tag("Strong", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Emph:
		return tag("Emph", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Underline:
		return tag("Underline", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Strikeout:
		return tag("Strikeout", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Superscript:
		return tag("Superscript", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Subscript:
		return tag("Subscript", map[string]any{"inlines": inlinesToJSON(v.Inlines)})
	case docast.Code:
		return tag("Code", map[string]any{"text": v.Text})
	case docast.Link:
		return tag("Link", map[string]any{"url": v.URL, "title": v.Title, "inlines": inlinesToJSON(v.Inlines)})
	case docast.Image:
		return tag("Image", map[string]any{"url": v.URL, "title": v.Title})
	case docast.Note:
		return tag("Note", map[string]any{"blocks": blocksToJSON(v.Blocks)})
	default:
		return tag("Unknown", nil)
	}
}

func tag(kind string, fields map[string]any) map[string]any {
	out := map[string]any{"type": kind}
	for k, v := range fields {
		out[k] = v
	}
	return out
}
