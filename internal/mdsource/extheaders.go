package mdsource

import (
	"fmt"
	"regexp"
	"strings"
)

var extendedHeaderRE = regexp.MustCompile(`^(#{7,9})\s+(.+)$`)

// extHeaderPrefix is a sentinel that cannot collide with ordinary
// Markdown text (no markup characters), the way
// MarkoToPandocAdapter._preprocess_extended_headers guards against the
// placeholder itself triggering inline formatting.
const extHeaderPrefix = "EXTHEADERMARKERMDTOHWPX"

// extractExtendedHeaders rewrites "#######".."#########" ATX lines (levels
// 7-9, which standard Markdown doesn't support) into blank-line-delimited
// placeholder paragraphs, returning the rewritten text and a lookup from
// placeholder token to the original level/content so the caller can restore
// them as Header blocks after the common parser runs.
func extractExtendedHeaders(text string) (string, map[string]extHeader) {
	placeholders := map[string]extHeader{}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	counter := 0

	for _, line := range lines {
		m := extendedHeaderRE.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		level := len(m[1])
		content := m[2]
		token := fmt.Sprintf("%s%dMARKER", extHeaderPrefix, counter)
		counter++
		placeholders[token] = extHeader{Level: level, Content: content}
		out = append(out, "", token, "")
	}
	return strings.Join(out, "\n"), placeholders
}

type extHeader struct {
	Level   int
	Content string
}
