package convconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLunitKnownUnits(t *testing.T) {
	assert.InDelta(t, 25.4*LunitPerMM, ToLunit(1, "in"), 0.001)
	assert.InDelta(t, 10*LunitPerMM, ToLunit(1, "cm"), 0.001)
	assert.InDelta(t, LunitPerMM, ToLunit(1, "mm"), 0.001)
	assert.InDelta(t, 25.4/72*LunitPerMM, ToLunit(1, "pt"), 0.001)
	assert.InDelta(t, 1.5*LunitPerMM, ToLunit(1, "%"), 0.001)
}

func TestToLunitUnrecognizedUnitTreatedAsPx(t *testing.T) {
	assert.Equal(t, ToLunit(10, "px"), ToLunit(10, "unknown-unit"))
}

func TestDefaultMatchesPackageConstants(t *testing.T) {
	d := Default()
	assert.Equal(t, MaxNestingDepth, d.MaxNestingDepth)
	assert.Equal(t, MaxImageCount, d.MaxImageCount)
	assert.Equal(t, ImageMaxWidth, d.ImageMaxWidth)
	assert.Equal(t, PageBreakBeforeH1, d.PageBreakBeforeH1)
}
