package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ymseo741/mdtohwpx/internal/docast"
)

// TestColumnWidthsProportional covers S5: dash-count-derived proportional
// widths are converted to lunit widths summing close to the table total.
func TestColumnWidthsProportional(t *testing.T) {
	specs := []docast.ColSpec{
		{Width: 0.25},
		{Width: 0.75},
	}
	widths := columnWidths(specs, 2, 4000)
	assert.Equal(t, []int{1000, 3000}, widths)
}

// TestColumnWidthsFallsBackToEqualSplit covers the "no proportional hint"
// branch: when every ColSpec is WidthIsDefault, or the spec count doesn't
// match the column count, widths split evenly.
func TestColumnWidthsFallsBackToEqualSplit(t *testing.T) {
	specs := []docast.ColSpec{
		{WidthIsDefault: true},
		{WidthIsDefault: true},
		{WidthIsDefault: true},
	}
	widths := columnWidths(specs, 3, 3000)
	assert.Equal(t, []int{1000, 1000, 1000}, widths)
}

func TestColumnWidthsMismatchedSpecCountFallsBackToEqual(t *testing.T) {
	specs := []docast.ColSpec{{Width: 1.0}}
	widths := columnWidths(specs, 2, 2000)
	assert.Equal(t, []int{1000, 1000}, widths)
}

func TestClassifyRowHeaderTopMiddleBottom(t *testing.T) {
	assert.Equal(t, "HEADER", classifyRow(0, 1, 3))
	assert.Equal(t, "TOP", classifyRow(1, 1, 3))
	assert.Equal(t, "MIDDLE", classifyRow(2, 1, 3))
	assert.Equal(t, "BOTTOM", classifyRow(3, 1, 3))
}

func TestClassifyRowSingleBodyRowIsTopNotBottom(t *testing.T) {
	// With only one body row, it's classified TOP; BOTTOM requires >= 2 body
	// rows so a single-row body isn't double-classified.
	assert.Equal(t, "TOP", classifyRow(1, 1, 1))
}

func TestClassifyColLeftCenterRight(t *testing.T) {
	assert.Equal(t, "LEFT", classifyCol(0, 3))
	assert.Equal(t, "CENTER", classifyCol(1, 3))
	assert.Equal(t, "RIGHT", classifyCol(2, 3))
}

func TestClassifyColSingleColumnIsLeft(t *testing.T) {
	assert.Equal(t, "LEFT", classifyCol(0, 1))
}
