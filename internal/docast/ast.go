// Package docast defines the fixed tagged-union document model produced by
// the Markdown source adapter and consumed by the block emitter. It mirrors
// the shape of a Pandoc AST closely enough that tooling authored against one
// translates easily to the other, but it is not wire-compatible with Pandoc.
package docast

// Align is a table column or cell alignment.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Document is the root of a converted Markdown source.
type Document struct {
	Meta   Meta
	Blocks []Block
}

// Meta carries frontmatter-derived metadata. Title is the one field the
// emitter and container writer currently consume.
type Meta struct {
	Title string
	Raw   map[string]string
}

// Block is the closed set of block-level AST variants. Implementations are
// listed in §3 of the specification; the set is closed and callers must not
// define new ones outside this package.
type Block interface {
	blockNode()
}

type Header struct {
	Level   int // 1..9
	Inlines []Inline
}

type Paragraph struct {
	Inlines []Inline
}

// Plain is a paragraph-like block with no block-level wrapping (e.g. a bare
// list item line); it is styled identically to Paragraph by the emitter.
type Plain struct {
	Inlines []Inline
}

type BulletList struct {
	Items [][]Block
}

type OrderedList struct {
	Start int
	Items [][]Block
}

type BlockQuote struct {
	Blocks []Block
}

type CodeBlock struct {
	Classes []string
	Text    string
}

type ColSpec struct {
	Align Align
	// Width is a proportion in (0,1]; WidthIsDefault is true when no
	// explicit width was supplied by the source (GFM tables without a
	// recognizable dash-count hint, or non-tabular sources).
	Width          float64
	WidthIsDefault bool
}

type Cell struct {
	Align   Align
	RowSpan int
	ColSpan int
	Blocks  []Block
}

type Row struct {
	Cells []Cell
}

type Table struct {
	ColSpecs []ColSpec
	HeadRows []Row
	BodyRows []Row
	FootRows []Row
}

type HorizontalRule struct{}

func (Header) blockNode()         {}
func (Paragraph) blockNode()      {}
func (Plain) blockNode()          {}
func (BulletList) blockNode()     {}
func (OrderedList) blockNode()    {}
func (BlockQuote) blockNode()     {}
func (CodeBlock) blockNode()      {}
func (Table) blockNode()          {}
func (HorizontalRule) blockNode() {}

// Inline is the closed set of inline-level AST variants (§3).
type Inline interface {
	inlineNode()
}

type Str struct{ Text string }
type Space struct{}
type SoftBreak struct{}
type LineBreak struct{}
type Strong struct{ Inlines []Inline }
type Emph struct{ Inlines []Inline }
type Underline struct{ Inlines []Inline }
type Strikeout struct{ Inlines []Inline }
type Superscript struct{ Inlines []Inline }
type Subscript struct{ Inlines []Inline }
type Code struct{ Text string }

type Link struct {
	URL     string
	Title   string
	Inlines []Inline
}

type ImageAttrs struct {
	Width  string // raw attribute text, e.g. "320px", "50%"; empty if unset
	Height string
}

type Image struct {
	URL   string
	Title string
	Attrs ImageAttrs
}

type Note struct {
	Blocks []Block
}

func (Str) inlineNode()         {}
func (Space) inlineNode()       {}
func (SoftBreak) inlineNode()   {}
func (LineBreak) inlineNode()   {}
func (Strong) inlineNode()      {}
func (Emph) inlineNode()        {}
func (Underline) inlineNode()   {}
func (Strikeout) inlineNode()   {}
func (Superscript) inlineNode() {}
func (Subscript) inlineNode()   {}
func (Code) inlineNode()        {}
func (Link) inlineNode()        {}
func (Image) inlineNode()       {}
func (Note) inlineNode()        {}
