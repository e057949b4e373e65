package emit

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

// emitTable implements §4.3.5: flatten head/body/foot rows, classify each
// cell by rowType/colType to pick a CELL_* placeholder, track span
// occupancy, and divide column widths either proportionally (from
// ColSpec.Width) or equally.
func (e *Emitter) emitTable(parent *etree.Element, tbl docast.Table) error {
	rows := make([]docast.Row, 0, len(tbl.HeadRows)+len(tbl.BodyRows)+len(tbl.FootRows))
	rows = append(rows, tbl.HeadRows...)
	rows = append(rows, tbl.BodyRows...)
	rows = append(rows, tbl.FootRows...)
	headerRowCount := len(tbl.HeadRows)
	bodyRowCount := len(tbl.BodyRows)

	ncols := len(tbl.ColSpecs)
	if ncols == 0 {
		for _, r := range rows {
			if len(r.Cells) > ncols {
				ncols = len(r.Cells)
			}
		}
	}

	total := e.model.TemplateTableWidth
	if total == 0 {
		total = e.limits.TableWidthDefault
	}
	widths := columnWidths(tbl.ColSpecs, ncols, total)

	para := etree.NewElement("hp:p")
	run := para.CreateElement("hp:run")
	tblElem := run.CreateElement("hp:tbl")
	tblElem.CreateAttr("id", uuid.NewString())
	tblElem.CreateAttr("rowCnt", fmt.Sprintf("%d", len(rows)))
	tblElem.CreateAttr("colCnt", fmt.Sprintf("%d", ncols))
	sz := tblElem.CreateElement("hp:sz")
	sz.CreateAttr("width", fmt.Sprintf("%d", total))

	occupied := map[[2]int]bool{}

	for rowIdx, row := range rows {
		rowType := classifyRow(rowIdx, headerRowCount, bodyRowCount)
		col := 0
		for _, cell := range row.Cells {
			for occupied[[2]int{rowIdx, col}] {
				col++
			}
			colType := classifyCol(col, ncols)
			key := fmt.Sprintf("CELL_%s_%s", rowType, colType)
			cellStyle := e.model.Placeholders[key]

			rowSpan := cell.RowSpan
			if rowSpan < 1 {
				rowSpan = 1
			}
			colSpan := cell.ColSpan
			if colSpan < 1 {
				colSpan = 1
			}

			width := 0
			for i := 0; i < colSpan && col+i < len(widths); i++ {
				width += widths[col+i]
			}

			tc := tblElem.CreateElement("hp:tc")
			borderFillID := e.model.TableBorderFillID
			if cellStyle != nil && cellStyle.BorderFillID != "" {
				borderFillID = cellStyle.BorderFillID
			}
			tc.CreateAttr("borderFillIDRef", borderFillID)
			cellSz := tc.CreateElement("cellSz")
			cellSz.CreateAttr("width", fmt.Sprintf("%d", width))
			if cellStyle != nil && cellStyle.CellMargin != nil {
				tc.AddChild(cellStyle.CellMargin.Copy())
			}

			cellPara := tc.CreateElement("hp:p")
			styleID, paraPrID, charPrID := "", "", ""
			if cellStyle != nil {
				styleID, paraPrID, charPrID = cellStyle.StyleID, cellStyle.ParaPrID, cellStyle.CharPrID
			}
			if cell.Align != docast.AlignDefault {
				paraPrID = e.reg.DeriveAlignedParaPr(cell.Align)
			}
			if styleID != "" {
				cellPara.CreateAttr("styleIDRef", styleID)
			}
			if paraPrID != "" {
				cellPara.CreateAttr("paraPrIDRef", paraPrID)
			}
			for _, b := range cell.Blocks {
				switch v := b.(type) {
				case docast.Plain:
					e.emitInlines(cellPara, v.Inlines, charPrID, 0)
				case docast.Paragraph:
					e.emitInlines(cellPara, v.Inlines, charPrID, 0)
				default:
					_ = e.emitBlock(tc, b, 0)
				}
			}

			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					occupied[[2]int{rowIdx + dr, col + dc}] = true
				}
			}
			col += colSpan
		}
	}

	parent.AddChild(para)
	e.hasEmittedBlock = true
	return nil
}

func columnWidths(specs []docast.ColSpec, ncols, total int) []int {
	widths := make([]int, ncols)
	hasProportional := false
	for _, s := range specs {
		if !s.WidthIsDefault {
			hasProportional = true
			break
		}
	}
	if !hasProportional || len(specs) != ncols {
		equal := total / max(ncols, 1)
		for i := range widths {
			widths[i] = equal
		}
		return widths
	}
	for i, s := range specs {
		widths[i] = int(s.Width*float64(total) + 0.5)
	}
	return widths
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func classifyRow(rowIdx, headerRowCount, bodyRowCount int) string {
	if rowIdx < headerRowCount {
		return "HEADER"
	}
	bodyIdx := rowIdx - headerRowCount
	switch {
	case bodyIdx == 0:
		return "TOP"
	case bodyRowCount >= 2 && bodyIdx == bodyRowCount-1:
		return "BOTTOM"
	default:
		return "MIDDLE"
	}
}

func classifyCol(col, ncols int) string {
	if ncols <= 1 {
		return "LEFT"
	}
	switch {
	case col == 0:
		return "LEFT"
	case col == ncols-1:
		return "RIGHT"
	default:
		return "CENTER"
	}
}
