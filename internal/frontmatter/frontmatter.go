// Package frontmatter extracts a leading YAML front-matter block from a
// Markdown document, mirroring md2hwpx/frontmatter_parser.py. Markdown
// frontmatter extraction is named as an external collaborator in the
// specification's scope (§1); this package is the concrete implementation
// the CLI needs to be runnable end to end.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delim = "---"

// Result holds the extracted metadata and the Markdown body with the
// front-matter block removed.
type Result struct {
	Metadata map[string]any
	Body     string
}

// Parse splits off a leading "---\n...\n---" YAML block, if present. A
// document with no front matter returns an empty metadata map and the
// original text unchanged.
func Parse(text string) (Result, error) {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != delim {
		return Result{Metadata: map[string]any{}, Body: text}, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == delim {
			end = i
			break
		}
	}
	if end < 0 {
		return Result{Metadata: map[string]any{}, Body: text}, nil
	}

	yamlBlock := strings.Join(lines[1:end], "")
	meta := map[string]any{}
	if strings.TrimSpace(yamlBlock) != "" {
		if err := yaml.Unmarshal([]byte(yamlBlock), &meta); err != nil {
			return Result{}, fmt.Errorf("frontmatter: parsing yaml block: %w", err)
		}
	}
	body := strings.Join(lines[end+1:], "")
	return Result{Metadata: meta, Body: body}, nil
}

// Title extracts a "title" key from metadata as a string, honoring the
// common YAML scalar encodings. Returns "" if absent.
func Title(meta map[string]any) string {
	v, ok := meta["title"]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Strings flattens metadata values to strings for docast.Meta.Raw, the way
// the Pandoc-meta conversion in the original does for simple scalars and
// lists (nested maps are rendered with Go's default formatting rather than
// reproducing MetaMap, since nothing downstream of this repo consumes that
// structure).
func Strings(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		switch t := v.(type) {
		case []any:
			parts := make([]string, 0, len(t))
			for _, item := range t {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			out[k] = strings.Join(parts, ", ")
		default:
			out[k] = fmt.Sprintf("%v", t)
		}
	}
	return out
}
