package mdsource

import (
	"regexp"
	"strings"
)

var tableSeparatorRE = regexp.MustCompile(`^\|[\s:]*-`)
var tableSeparatorCellRE = regexp.MustCompile(`^:?-+:?$`)

// colHint is what the raw-text separator-row scan recovers for one table
// column: its GFM alignment marker and its dash count (used for
// proportional width, per §4.3.5 and scenario S5).
type colHint struct {
	align  align
	dashes int
}

type align int

const (
	alignDefault align = iota
	alignLeft
	alignCenter
	alignRight
)

// scanTableHints scans raw Markdown text for GFM table separator rows
// (e.g. "|:---|-----:|:---:|") and records, per table (in document order),
// the alignment and dash count of each column. Mirrors
// MarkoToPandocAdapter._preprocess_table_dashes, since the upstream parser's
// own table model usually discards exact dash counts needed for
// proportional column widths.
func scanTableHints(text string) [][]colHint {
	var tables [][]colHint
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if !tableSeparatorRE.MatchString(stripped) {
			continue
		}
		trimmed := strings.Trim(stripped, "|")
		cells := strings.Split(trimmed, "|")
		if len(cells) == 0 {
			continue
		}
		ok := true
		hints := make([]colHint, 0, len(cells))
		for _, c := range cells {
			c = strings.TrimSpace(c)
			if c == "" || !tableSeparatorCellRE.MatchString(c) {
				ok = false
				break
			}
			h := colHint{dashes: strings.Count(c, "-")}
			left := strings.HasPrefix(c, ":")
			right := strings.HasSuffix(c, ":")
			switch {
			case left && right:
				h.align = alignCenter
			case left:
				h.align = alignLeft
			case right:
				h.align = alignRight
			default:
				h.align = alignDefault
			}
			hints = append(hints, h)
		}
		if ok && len(hints) > 0 {
			tables = append(tables, hints)
		}
	}
	return tables
}
