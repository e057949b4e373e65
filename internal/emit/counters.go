package emit

import (
	"regexp"
	"strconv"
	"strings"
)

var romanUpper = []string{
	"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV", "XVI", "XVII", "XVIII", "XIX", "XX",
}

var koreanSyllables = []rune("가나다라마바사아자차카타파하")

var digitRunRE = regexp.MustCompile(`[0-9]+`)

// formatCounter implements §4.3.1 "Counter formatting of prefix/numbering
// text": given a template string and a 1-based counter, substitute a Roman
// numeral, an Arabic digit run, or a Korean syllable, in that priority
// order; templates matching none of these patterns are returned unchanged.
// Shared between heading-table numbering cells and list prefixes (§9).
func formatCounter(tmpl string, counter int) string {
	stripped := strings.TrimSpace(tmpl)
	if counter >= 1 && counter <= len(romanUpper) {
		upper := romanUpper[counter-1]
		for _, numeral := range romanUpper {
			switch stripped {
			case numeral:
				return strings.Replace(tmpl, stripped, upper, 1)
			case strings.ToLower(numeral):
				return strings.Replace(tmpl, stripped, strings.ToLower(upper), 1)
			}
		}
	}

	if loc := digitRunRE.FindStringIndex(tmpl); loc != nil {
		return tmpl[:loc[0]] + strconv.Itoa(counter) + tmpl[loc[1]:]
	}

	for _, r := range stripped {
		for _, syl := range koreanSyllables {
			if r != syl {
				continue
			}
			idx := counter - 1
			if idx < 0 {
				idx = 0
			}
			idx = idx % len(koreanSyllables)
			return strings.Replace(tmpl, string(syl), string(koreanSyllables[idx]), 1)
		}
	}

	return tmpl
}
