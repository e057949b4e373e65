package mdsource

import (
	"regexp"
	"strings"
)

var footnoteDefRE = regexp.MustCompile(`^\[\^([^\]]+)\]:\s?(.*)$`)
var footnoteRefRE = regexp.MustCompile(`\[\^([^\]]+)\]`)

// extractFootnoteDefinitions strips reference-style footnote definitions
// ("[^id]: body text") from the raw Markdown and returns the remaining text
// plus an id->body map. gomarkdown has no built-in footnote extension (the
// Python original enables marko's); this minimal single-paragraph-body
// collector reproduces enough of it to satisfy the Note AST variant (§3).
func extractFootnoteDefinitions(text string) (string, map[string]string) {
	defs := map[string]string{}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if m := footnoteDefRE.FindStringSubmatch(line); m != nil {
			defs[m[1]] = strings.TrimSpace(m[2])
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), defs
}
