package mdsource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExtendedHeadersLevels7To9(t *testing.T) {
	text := "####### Level Seven\n\nnormal text\n\n######## Level Eight\n"
	rewritten, placeholders := extractExtendedHeaders(text)

	assert.Len(t, placeholders, 2)
	assert.Contains(t, rewritten, "normal text")
	assert.NotContains(t, rewritten, "#######")

	var levels []int
	for _, h := range placeholders {
		levels = append(levels, h.Level)
	}
	assert.Contains(t, levels, 7)
	assert.Contains(t, levels, 8)
}

func TestExtractExtendedHeadersPreservesOrdinaryHeaders(t *testing.T) {
	text := "# Title\n\n## Subtitle\n"
	rewritten, placeholders := extractExtendedHeaders(text)
	assert.Empty(t, placeholders)
	assert.Equal(t, text, rewritten)
}

func TestExtractExtendedHeadersPlaceholderCarriesContent(t *testing.T) {
	text := "######### Deepest Level\n"
	_, placeholders := extractExtendedHeaders(text)
	require.Len(t, placeholders, 1)
	for _, h := range placeholders {
		assert.Equal(t, 9, h.Level)
		assert.Equal(t, "Deepest Level", h.Content)
	}
}

func TestExtractExtendedHeadersPlaceholderTokensDontCollideWithText(t *testing.T) {
	text := "####### A\n\n####### B\n"
	rewritten, placeholders := extractExtendedHeaders(text)
	assert.Len(t, placeholders, 2)
	tokens := make([]string, 0, 2)
	for token := range placeholders {
		tokens = append(tokens, token)
		assert.True(t, strings.HasPrefix(token, extHeaderPrefix))
	}
	assert.NotEqual(t, tokens[0], tokens[1])
	assert.Contains(t, rewritten, tokens[0])
	assert.Contains(t, rewritten, tokens[1])
}
