// Package convconfig holds the numeric constants and limits named in the
// specification (§6 "Limits", §4.2 derivation constants, §4.3.7 image unit
// table). They are grouped into a Limits struct, mirroring the shape of the
// teacher's DocumentConfig/ImagesConfig (without the YAML/gencfg templating
// layer this tool has no use for — see DESIGN.md), so a caller can override
// any of them without touching package-level state.
package convconfig

const (
	// LunitPerMM converts millimeters to HWPX logical units.
	LunitPerMM = 283.465

	BlockquoteLeftIndent      = 850
	BlockquoteIndentPerLevel  = 850
	ListIndentPerLevel        = 850
	ListHangingIndent         = 850
	TableWidthDefault         = 42520 // ~150mm at LunitPerMM, used when no template table width is known
	ImageDefaultWidth         = 28346 // ~100mm
	ImageDefaultHeight        = 18898 // ~66.6mm
	ImageMaxWidth             = 56692 // ~200mm
	MaxNestingDepth           = 20
	MaxImageCount             = 500
	MaxInputFileSize    int64 = 50 * 1024 * 1024
	MaxTemplateFileSize int64 = 50 * 1024 * 1024
)

// PageBreakBeforeH1 controls whether every H1 after the first emitted block
// gets a page break, per §4.3.1.
var PageBreakBeforeH1 = true

// Limits is the overridable view of the constants above, for callers (tests,
// alternate CLI front-ends) that want non-default behavior without forking
// the package.
type Limits struct {
	MaxNestingDepth     int
	MaxImageCount       int
	MaxInputFileSize    int64
	MaxTemplateFileSize int64
	ImageDefaultWidth   int
	ImageDefaultHeight  int
	ImageMaxWidth       int
	TableWidthDefault   int
	PageBreakBeforeH1   bool
}

// Default returns the Limits matching the package-level constants.
func Default() Limits {
	return Limits{
		MaxNestingDepth:     MaxNestingDepth,
		MaxImageCount:       MaxImageCount,
		MaxInputFileSize:    MaxInputFileSize,
		MaxTemplateFileSize: MaxTemplateFileSize,
		ImageDefaultWidth:   ImageDefaultWidth,
		ImageDefaultHeight:  ImageDefaultHeight,
		ImageMaxWidth:       ImageMaxWidth,
		TableWidthDefault:   TableWidthDefault,
		PageBreakBeforeH1:   PageBreakBeforeH1,
	}
}

// ToLunit converts a value expressed in the given CSS-like unit to HWPX
// logical units, per the unit table in §4.3.7. Unrecognized units are
// treated as px, matching the specification.
func ToLunit(val float64, unit string) float64 {
	switch unit {
	case "in":
		return val * 25.4 * LunitPerMM
	case "cm":
		return val * 10 * LunitPerMM
	case "mm":
		return val * LunitPerMM
	case "pt":
		return val * 25.4 / 72 * LunitPerMM
	case "%":
		return val * 1.5 * LunitPerMM
	case "px":
		fallthrough
	default:
		return val * 25.4 / 96 * LunitPerMM
	}
}
