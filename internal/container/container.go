// Package container implements the Container Writer (§4.4): reads the
// reference HWPX as a ZIP, substitutes the three style/content entries,
// embeds any discovered images under BinData/, and copies every other
// entry through unchanged. It follows convert/epub/generate.go's
// copyZipWithoutDataDescriptors + writeXMLToZip/writeDataToZip shape from
// the retrieved pack, reusing hidez8891/zip's tolerant reader/writer the
// same way the teacher does for whole-archive passthrough copies.
package container

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"github.com/ymseo741/mdtohwpx/internal/errs"
)

const (
	sectionEntry = "Contents/section0.xml"
	headerEntry  = "Contents/header.xml"
	manifestEntry = "Contents/content.hpf"
	binDataDir   = "BinData/"
)

// ImageRef is one image to embed, mirroring internal/emit.ImageRef without
// creating an import cycle between emit and container.
type ImageRef struct {
	ID   string
	Path string
	Ext  string
}

// Reader extracts the three entries the Template Introspector and
// Container Writer need from a reference HWPX.
type Reader struct {
	path string
}

func NewReader(path string) *Reader { return &Reader{path: path} }

// ReadTemplate returns the raw header.xml and section0.xml bytes.
func (r *Reader) ReadTemplate() (headerXML, sectionXML []byte, err error) {
	zr, err := fixzip.OpenReader(r.path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.Template, err, "opening template archive %s", r.path)
	}
	defer zr.Close()

	for _, f := range zr.File {
		switch f.Name {
		case headerEntry:
			if headerXML, err = readZipFile(f); err != nil {
				return nil, nil, errs.Wrap(errs.Template, err, "reading %s", headerEntry)
			}
		case sectionEntry:
			if sectionXML, err = readZipFile(f); err != nil {
				return nil, nil, errs.Wrap(errs.Template, err, "reading %s", sectionEntry)
			}
		}
	}
	if headerXML == nil || sectionXML == nil {
		return nil, nil, errs.TemplateErrorf("template archive %s is missing %s or %s", r.path, headerEntry, sectionEntry)
	}
	return headerXML, sectionXML, nil
}

func readZipFile(f *fixzip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Writer writes the final HWPX, copying the reference archive through
// except for the entries §4.4 names.
type Writer struct {
	refPath string
	log     *zap.Logger
}

func NewWriter(refPath string, log *zap.Logger) *Writer {
	return &Writer{refPath: refPath, log: log}
}

// Write assembles the output HWPX at outPath.
//
//   - sectionXML is the raw original Contents/section0.xml bytes; bodyXML
//     replaces the content between the first "<hs:sec" opening tag and the
//     final "</hs:sec>".
//   - headerDoc is the Style Registry's mutated header tree.
//   - title, if non-empty, replaces content.hpf's title element.
//   - images are embedded at BinData/<id>.<ext>; unresolved sources (empty
//     Path) are skipped with a warning, per §4.4 "a missing image is
//     logged and skipped".
func (w *Writer) Write(outPath string, sectionXML []byte, bodyXML string, headerDoc *etree.Document, title string, images []ImageRef) error {
	zr, err := fixzip.OpenReader(w.refPath)
	if err != nil {
		return errs.Wrap(errs.Template, err, "reopening template archive %s", w.refPath)
	}
	defer zr.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return errs.Wrap(errs.Conversion, err, "creating output file %s", outPath)
	}
	defer out.Close()

	zw := fixzip.NewWriter(out)
	defer zw.Close()

	newSection, err := patchSection(sectionXML, bodyXML)
	if err != nil {
		return err
	}
	headerBytes, err := docToBytes(headerDoc)
	if err != nil {
		return errs.Wrap(errs.Conversion, err, "serializing mutated header.xml")
	}

	var manifestBytes []byte
	manifestPatched := false

	for _, f := range zr.File {
		switch f.Name {
		case sectionEntry, headerEntry, manifestEntry:
			continue // written below, after patching
		default:
			f.Flags &= ^fixzip.FlagDataDescriptor
			if err := zw.CopyFile(f); err != nil {
				return errs.Wrap(errs.Conversion, err, "copying archive entry %s", f.Name)
			}
		}
	}

	for _, f := range zr.File {
		if f.Name != manifestEntry {
			continue
		}
		raw, err := readZipFile(f)
		if err != nil {
			return errs.Wrap(errs.Template, err, "reading %s", manifestEntry)
		}
		manifestBytes, err = patchManifest(raw, title, images)
		if err != nil {
			return err
		}
		manifestPatched = true
	}
	if !manifestPatched {
		return errs.TemplateErrorf("template archive %s is missing %s", w.refPath, manifestEntry)
	}

	if err := writeEntry(zw, sectionEntry, newSection); err != nil {
		return err
	}
	if err := writeEntry(zw, headerEntry, headerBytes); err != nil {
		return err
	}
	if err := writeEntry(zw, manifestEntry, manifestBytes); err != nil {
		return err
	}

	for _, img := range images {
		if img.Path == "" {
			if w.log != nil {
				w.log.Warn("skipping unresolved image", zap.String("id", img.ID))
			}
			continue
		}
		data, err := os.ReadFile(img.Path)
		if err != nil {
			if w.log != nil {
				w.log.Warn("skipping unreadable image", zap.String("path", img.Path), zap.Error(err))
			}
			continue
		}
		name := path.Join(binDataDir, fmt.Sprintf("%s.%s", img.ID, img.Ext))
		if err := writeEntry(zw, name, data); err != nil {
			return err
		}
	}

	return nil
}

func writeEntry(zw *fixzip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return errs.Wrap(errs.Conversion, err, "creating archive entry %s", name)
	}
	if _, err := w.Write(data); err != nil {
		return errs.Wrap(errs.Conversion, err, "writing archive entry %s", name)
	}
	return nil
}

var secOpenRE = regexp.MustCompile(`<hs:sec[^>]*>`)

// patchSection implements the section0.xml substitution of §4.4: replace
// the content between the first "<hs:sec ...>" opening tag and the final
// "</hs:sec>" with the emitted body XML, augmenting the opening tag with
// the paragraph/core namespaces if the template doesn't already declare
// them.
func patchSection(original []byte, bodyXML string) ([]byte, error) {
	text := string(original)
	loc := secOpenRE.FindStringIndex(text)
	if loc == nil {
		return nil, errs.TemplateErrorf("section0.xml has no <hs:sec> opening tag")
	}
	closeIdx := strings.LastIndex(text, "</hs:sec>")
	if closeIdx < 0 || closeIdx < loc[1] {
		return nil, errs.TemplateErrorf("section0.xml has no matching </hs:sec>")
	}

	open := text[loc[0]:loc[1]]
	open = ensureNamespace(open, "xmlns:hp", "http://www.hancom.co.kr/hwpml/2011/paragraph")
	open = ensureNamespace(open, "xmlns:hh", "http://www.hancom.co.kr/hwpml/2011/head")

	var buf bytes.Buffer
	buf.WriteString(text[:loc[0]])
	buf.WriteString(open)
	buf.WriteString(bodyXML)
	buf.WriteString(text[closeIdx:])
	return buf.Bytes(), nil
}

func ensureNamespace(openTag, attr, uri string) string {
	if strings.Contains(openTag, attr+"=") {
		return openTag
	}
	return strings.Replace(openTag, ">", fmt.Sprintf(` %s="%s">`, attr, uri), 1)
}

// patchManifest implements the content.hpf patch of §4.4: substitute the
// title element and inject a manifest item entry per embedded image.
func patchManifest(raw []byte, title string, images []ImageRef) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errs.Wrap(errs.Template, err, "parsing content.hpf")
	}

	if title != "" {
		if titleEl := doc.FindElement("//title"); titleEl != nil {
			titleEl.SetText(title)
		}
	}

	manifest := doc.FindElement("//manifest")
	if manifest != nil {
		for _, img := range images {
			item := manifest.CreateElement("item")
			item.CreateAttr("id", img.ID)
			item.CreateAttr("href", path.Join(binDataDir, fmt.Sprintf("%s.%s", img.ID, img.Ext)))
			item.CreateAttr("media-type", mediaType(img.Ext))
			item.CreateAttr("isEmbeded", "1")
		}
	}

	return docToBytes(doc)
}

func mediaType(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}

func docToBytes(doc *etree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
