package emit

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/ymseo741/mdtohwpx/internal/docast"
	"github.com/ymseo741/mdtohwpx/internal/style"
	"github.com/ymseo741/mdtohwpx/internal/template"
)

// emitList implements §4.3.4: template-driven numbering/prefix styles when
// the template defines one for (kind, level+1), else a freshly created
// HWPX numbering definition. level is 0-based nesting depth; depths at or
// beyond MAX_NESTING_DEPTH collapse to the deepest allowed level with a
// warning rather than aborting (§8 property 7).
func (e *Emitter) emitList(parent *etree.Element, ordered bool, start int, items [][]docast.Block, level int) error {
	effLevel := level
	if effLevel >= e.limits.MaxNestingDepth {
		if e.log != nil {
			e.log.Warn("list nesting exceeds maximum depth, collapsing",
				zap.Int("level", level), zap.Int("max", e.limits.MaxNestingDepth))
		}
		effLevel = e.limits.MaxNestingDepth - 1
	}

	kind := "BULLET"
	if ordered {
		kind = "ORDERED"
	}
	lvlSlot := effLevel + 1
	if lvlSlot > 7 {
		lvlSlot = 7
	}
	placeholder := e.model.Placeholders[fmt.Sprintf("LIST_%s_%d", kind, lvlSlot)]

	var numID string
	useTemplateNumbering := placeholder != nil && placeholder.Mode == template.ModeNumbering
	usePrefix := placeholder != nil && placeholder.Mode == template.ModePrefix

	kindEnum := style.Bullet
	if ordered {
		kindEnum = style.Ordered
	}
	if placeholder == nil {
		numID = e.reg.CreateNumbering(kindEnum, start)
	}

	counter := start

	for _, itemBlocks := range items {
		var para *etree.Element
		switch {
		case useTemplateNumbering:
			para = e.newParagraph(parent, placeholder.StyleID, placeholder.ParaPrID)
		case usePrefix:
			para = e.newParagraph(parent, placeholder.StyleID, placeholder.ParaPrID)
			prefix := placeholder.Prefix
			if ordered {
				prefix = formatCounter(prefix, counter)
			}
			e.emitTextRun(para, prefix, placeholder.CharPrID)
		default:
			paraPrID := e.reg.DeriveListParaPr(numID, effLevel)
			para = e.newParagraph(parent, "", paraPrID)
		}

		for _, b := range itemBlocks {
			if nested, ok := b.(docast.BulletList); ok {
				if err := e.emitList(parent, false, 1, nested.Items, level+1); err != nil {
					return err
				}
				continue
			}
			if nested, ok := b.(docast.OrderedList); ok {
				nestedStart := nested.Start
				if nestedStart == 0 {
					nestedStart = 1
				}
				if err := e.emitList(parent, true, nestedStart, nested.Items, level+1); err != nil {
					return err
				}
				continue
			}
			if err := e.appendBlockToParagraph(para, b); err != nil {
				return err
			}
		}
		counter++
	}
	e.hasEmittedBlock = true
	return nil
}

// appendBlockToParagraph emits every Plain or Paragraph block of an item
// into the already-created list paragraph, and any other non-list block via
// the general emitter (§4.3.4 "Non-list/paragraph blocks inside a list item
// are emitted via the general block emitter").
func (e *Emitter) appendBlockToParagraph(para *etree.Element, b docast.Block) error {
	switch v := b.(type) {
	case docast.Plain:
		e.emitInlines(para, v.Inlines, "", 0)
		return nil
	case docast.Paragraph:
		e.emitInlines(para, v.Inlines, "", 0)
		return nil
	default:
		parent := para.Parent()
		if parent == nil {
			return nil
		}
		return e.emitBlock(parent, b, 0)
	}
}
