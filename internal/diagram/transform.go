package diagram

import (
	"context"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

// Transform walks doc.Blocks looking for fenced code blocks tagged
// "mermaid" and replaces each with an embedded-image Paragraph when
// rendering succeeds, per §5. A code block that fails to render (or when
// r is disabled) is left untouched, which the Block Emitter then renders
// as plain text.
func Transform(ctx context.Context, doc *docast.Document, r *Renderer) {
	doc.Blocks = transformBlocks(ctx, doc.Blocks, r)
}

func transformBlocks(ctx context.Context, blocks []docast.Block, r *Renderer) []docast.Block {
	out := make([]docast.Block, len(blocks))
	for i, b := range blocks {
		out[i] = transformBlock(ctx, b, r)
	}
	return out
}

func transformBlock(ctx context.Context, b docast.Block, r *Renderer) docast.Block {
	switch v := b.(type) {
	case docast.CodeBlock:
		if !isMermaid(v.Classes) {
			return v
		}
		path, ok := r.Render(ctx, v.Text)
		if !ok {
			return v
		}
		return docast.Paragraph{Inlines: []docast.Inline{docast.Image{URL: path}}}
	case docast.BlockQuote:
		v.Blocks = transformBlocks(ctx, v.Blocks, r)
		return v
	case docast.BulletList:
		v.Items = transformItems(ctx, v.Items, r)
		return v
	case docast.OrderedList:
		v.Items = transformItems(ctx, v.Items, r)
		return v
	default:
		return b
	}
}

func transformItems(ctx context.Context, items [][]docast.Block, r *Renderer) [][]docast.Block {
	out := make([][]docast.Block, len(items))
	for i, item := range items {
		out[i] = transformBlocks(ctx, item, r)
	}
	return out
}

func isMermaid(classes []string) bool {
	for _, c := range classes {
		if c == "mermaid" {
			return true
		}
	}
	return false
}
