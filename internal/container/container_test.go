package container

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseXML(t *testing.T, s string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	return doc
}

const testSectionXML = `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section"><hp:p>old</hp:p></hs:sec>`

const testManifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<package><manifest/><metadata><title>Old Title</title></metadata></package>`

func TestPatchSectionReplacesBodyAndAddsNamespaces(t *testing.T) {
	out, err := patchSection([]byte(testSectionXML), "<hp:p>new</hp:p>")
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "new")
	assert.NotContains(t, s, "old")
	assert.Contains(t, s, `xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph"`)
	assert.Contains(t, s, `xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head"`)
}

func TestPatchSectionMissingOpenTagErrors(t *testing.T) {
	_, err := patchSection([]byte("<nope/>"), "<hp:p>x</hp:p>")
	assert.Error(t, err)
}

func TestEnsureNamespaceIsIdempotent(t *testing.T) {
	tag := `<hs:sec xmlns:hp="http://example.com/already">`
	got := ensureNamespace(tag, "xmlns:hp", "http://www.hancom.co.kr/hwpml/2011/paragraph")
	assert.Equal(t, tag, got, "an already-declared namespace must not be duplicated or overwritten")
}

func TestPatchManifestSubstitutesTitleAndAddsImageItems(t *testing.T) {
	out, err := patchManifest([]byte(testManifestXML), "New Title", []ImageRef{
		{ID: "img_1", Path: "/tmp/whatever.png", Ext: "png"},
	})
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "New Title")
	assert.NotContains(t, s, "Old Title")
	assert.Contains(t, s, `id="img_1"`)
	assert.Contains(t, s, "BinData/img_1.png")
	assert.Contains(t, s, `media-type="image/png"`)
}

func TestPatchManifestEmptyTitleLeavesOriginal(t *testing.T) {
	out, err := patchManifest([]byte(testManifestXML), "", nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Old Title")
}

func TestMediaTypeMapping(t *testing.T) {
	assert.Equal(t, "image/jpeg", mediaType("jpg"))
	assert.Equal(t, "image/jpeg", mediaType("jpeg"))
	assert.Equal(t, "image/gif", mediaType("gif"))
	assert.Equal(t, "image/bmp", mediaType("bmp"))
	assert.Equal(t, "image/png", mediaType("png"))
}

func buildTestTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	refPath := filepath.Join(dir, "ref.hwpx")
	f, err := os.Create(refPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	entries := map[string]string{
		headerEntry:   `<?xml version="1.0"?><hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head"/>`,
		sectionEntry:  testSectionXML,
		manifestEntry: testManifestXML,
		"version.xml": "<version/>",
	}
	for name, content := range entries {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return refPath
}

// TestWriterPreservesUnrelatedEntries covers §8 invariant 6: every archive
// entry not named by the Container Writer's three substitution targets
// passes through unchanged.
func TestWriterPreservesUnrelatedEntries(t *testing.T) {
	refPath := buildTestTemplate(t)

	reader := NewReader(refPath)
	headerXML, sectionXML, err := reader.ReadTemplate()
	require.NoError(t, err)
	assert.Contains(t, string(headerXML), "hh:head")
	assert.Contains(t, string(sectionXML), "old")

	writer := NewWriter(refPath, nil)
	outPath := filepath.Join(t.TempDir(), "out.hwpx")
	headerDoc := mustParseXML(t, string(headerXML))

	err = writer.Write(outPath, sectionXML, "<hp:p>written</hp:p>", headerDoc, "Output Title", nil)
	require.NoError(t, err)

	zr, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer zr.Close()

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	require.Contains(t, names, "version.xml")
	require.Contains(t, names, sectionEntry)
	require.Contains(t, names, manifestEntry)

	sectionFile, err := names[sectionEntry].Open()
	require.NoError(t, err)
	defer sectionFile.Close()
	buf := make([]byte, 4096)
	n, _ := sectionFile.Read(buf)
	assert.Contains(t, string(buf[:n]), "written")

	versionFile, err := names["version.xml"].Open()
	require.NoError(t, err)
	defer versionFile.Close()
	versionBytes, err := io.ReadAll(versionFile)
	require.NoError(t, err)
	assert.Equal(t, "<version/>", string(versionBytes))
}
