package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractsYAMLBlock(t *testing.T) {
	input := "---\ntitle: Hello World\nauthor: Jane\n---\n# Body\n\ntext\n"
	res, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", res.Metadata["title"])
	assert.Equal(t, "Jane", res.Metadata["author"])
	assert.Equal(t, "# Body\n\ntext\n", res.Body)
}

func TestParseNoFrontmatterReturnsWholeDocument(t *testing.T) {
	input := "# Just a heading\n\nbody\n"
	res, err := Parse(input)
	require.NoError(t, err)
	assert.Empty(t, res.Metadata)
	assert.Equal(t, input, res.Body)
}

func TestParseUnterminatedBlockReturnsWholeDocument(t *testing.T) {
	input := "---\ntitle: Oops\n\nno closing delimiter\n"
	res, err := Parse(input)
	require.NoError(t, err)
	assert.Empty(t, res.Metadata)
	assert.Equal(t, input, res.Body)
}

func TestParseInvalidYAMLErrors(t *testing.T) {
	input := "---\n: : not yaml : :\n---\nbody\n"
	_, err := Parse(input)
	assert.Error(t, err)
}

func TestTitleExtractsStringAndCoercesOtherScalars(t *testing.T) {
	assert.Equal(t, "Hello", Title(map[string]any{"title": "Hello"}))
	assert.Equal(t, "2024", Title(map[string]any{"title": 2024}))
	assert.Equal(t, "", Title(map[string]any{}))
}

func TestStringsFlattensListsAndScalars(t *testing.T) {
	meta := map[string]any{
		"tags":   []any{"a", "b", "c"},
		"author": "Jane",
		"year":   2024,
	}
	out := Strings(meta)
	assert.Equal(t, "a, b, c", out["tags"])
	assert.Equal(t, "Jane", out["author"])
	assert.Equal(t, "2024", out["year"])
}
