// Package convert wires the Template Introspector, Style Registry, Block
// Emitter, and Container Writer into the single top-level pipeline
// described in §2. It plays the role convert/epub.Generate and
// convert/kfx.Generate play in the retrieved pack: one function per output
// format, sharing a common content model built upstream (here, the
// Markdown source adapter and frontmatter parser instead of fbc's shared
// fb2.FictionBook).
package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/ymseo741/mdtohwpx/internal/container"
	"github.com/ymseo741/mdtohwpx/internal/convconfig"
	"github.com/ymseo741/mdtohwpx/internal/diagram"
	"github.com/ymseo741/mdtohwpx/internal/docast"
	"github.com/ymseo741/mdtohwpx/internal/emit"
	"github.com/ymseo741/mdtohwpx/internal/errs"
	"github.com/ymseo741/mdtohwpx/internal/frontmatter"
	"github.com/ymseo741/mdtohwpx/internal/htmlpreview"
	"github.com/ymseo741/mdtohwpx/internal/mdsource"
	"github.com/ymseo741/mdtohwpx/internal/style"
	"github.com/ymseo741/mdtohwpx/internal/template"
)

// Options captures the CLI surface described in §6.
type Options struct {
	InputPath    string
	OutputPath   string
	TemplatePath string // "" selects the embedded blank.hwpx
	DisableDiagrams bool
	Limits       convconfig.Limits
}

// Run executes the full pipeline for one conversion: parse, introspect,
// derive styles, emit body XML, and write the output archive (or a debug
// JSON/HTML dump, per the output extension).
func Run(ctx context.Context, opts Options, log *zap.Logger) error {
	if err := validateInputExtension(opts.InputPath); err != nil {
		return err
	}

	mdBytes, err := readBounded(opts.InputPath, opts.Limits.MaxInputFileSize)
	if err != nil {
		return errs.Wrap(errs.Conversion, err, "reading input file %s", opts.InputPath)
	}

	fm, err := frontmatter.Parse(string(mdBytes))
	if err != nil {
		return errs.Wrap(errs.Conversion, err, "parsing frontmatter")
	}

	doc := mdsource.Parse(fm.Body)
	doc.Meta.Title = frontmatter.Title(fm.Metadata)
	if doc.Meta.Title == "" {
		doc.Meta.Title = firstH1Text(doc)
	}
	doc.Meta.Raw = frontmatter.Strings(fm.Metadata)

	renderer := diagram.New(log, opts.DisableDiagrams)
	diagram.Transform(ctx, doc, renderer)

	switch outputKind(opts.OutputPath) {
	case kindJSON:
		return writeFile(opts.OutputPath, []byte(ToJSON(doc)))
	case kindHTML:
		return writeFile(opts.OutputPath, []byte(htmlpreview.Render(doc)))
	default:
		return runHWPX(doc, opts, log)
	}
}

func runHWPX(doc *docast.Document, opts Options, log *zap.Logger) error {
	templatePath, cleanupTemplate, err := resolveTemplate(opts.TemplatePath, opts.Limits)
	if err != nil {
		return err
	}
	if cleanupTemplate != "" {
		defer os.Remove(cleanupTemplate)
	}

	reader := container.NewReader(templatePath)
	headerXML, sectionXML, err := reader.ReadTemplate()
	if err != nil {
		return err
	}

	model, err := template.Introspect(headerXML, sectionXML)
	if err != nil {
		return err
	}

	registry := style.New(model.Header)

	mdDir := filepath.Dir(opts.InputPath)
	emitter := emit.New(model, registry, opts.Limits, log, mdDir)

	body := etree.NewElement("body")
	images, err := emitter.Emit(doc, body)
	if err != nil {
		return err
	}
	defer cleanupTempFiles(emitter.TempFiles())

	registry.Finalize()

	bodyXML, err := fragmentXML(body)
	if err != nil {
		return errs.Wrap(errs.Conversion, err, "serializing emitted body XML")
	}

	writer := container.NewWriter(templatePath, log)
	return writer.Write(opts.OutputPath, sectionXML, bodyXML, model.Header, doc.Meta.Title, toContainerImages(images))
}

func toContainerImages(images []emit.ImageRef) []container.ImageRef {
	out := make([]container.ImageRef, len(images))
	for i, img := range images {
		out[i] = container.ImageRef{ID: img.ID, Path: img.Path, Ext: img.Ext}
	}
	return out
}

// fragmentXML serializes body's children (not body itself, which exists
// only to anchor the tree during emission) as a raw XML fragment for
// container.patchSection to splice into section0.xml.
func fragmentXML(body *etree.Element) (string, error) {
	frag := etree.NewDocument()
	frag.Child = body.Child
	var buf bytes.Buffer
	if _, err := frag.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// firstH1Text implements the "title (or first H1 if absent)" fallback of
// SPEC_FULL.md's frontmatter supplement: the document's first top-level
// heading becomes the title when frontmatter supplies none.
func firstH1Text(doc *docast.Document) string {
	for _, b := range doc.Blocks {
		if h, ok := b.(docast.Header); ok && h.Level == 1 {
			var sb strings.Builder
			for _, in := range h.Inlines {
				sb.WriteString(inlineText(in))
			}
			return sb.String()
		}
	}
	return ""
}

func inlineText(in docast.Inline) string {
	switch v := in.(type) {
	case docast.Str:
		return v.Text
	case docast.Space, docast.SoftBreak:
		return " "
	case docast.Strong:
		return inlinesText(v.Inlines)
	case docast.Emph:
		return inlinesText(v.Inlines)
	case docast.Code:
		return v.Text
	default:
		return ""
	}
}

func inlinesText(inlines []docast.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		sb.WriteString(inlineText(in))
	}
	return sb.String()
}

func validateInputExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		return errs.ConversionErrorf("input file %s must have a .md or .markdown extension", path)
	}
	return nil
}

func readBounded(path string, max int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > max {
		return nil, errs.SecurityErrorf("input file %s exceeds size limit of %d bytes", path, max)
	}
	return os.ReadFile(path)
}

func cleanupTempFiles(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.Conversion, err, "creating output directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.Conversion, err, "writing output file %s", path)
	}
	return nil
}

type outputFmt int

const (
	kindHWPX outputFmt = iota
	kindJSON
	kindHTML
)

func outputKind(path string) outputFmt {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return kindJSON
	case ".html", ".htm":
		return kindHTML
	default:
		return kindHWPX
	}
}

// resolveTemplate returns the path to use as the reference HWPX, falling
// back to the packaged blank.hwpx when none is given, per §6. The returned
// cleanup path is non-empty only when a temp file was written for the
// embedded fallback.
func resolveTemplate(path string, limits convconfig.Limits) (string, string, error) {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", "", errs.Wrap(errs.Template, err, "opening template file %s", path)
		}
		if info.Size() > limits.MaxTemplateFileSize {
			return "", "", errs.SecurityErrorf("template file %s exceeds size limit of %d bytes", path, limits.MaxTemplateFileSize)
		}
		return path, "", nil
	}

	data, err := blankHWPX()
	if err != nil {
		return "", "", errs.Wrap(errs.Template, err, "loading embedded blank.hwpx")
	}
	tmp, err := os.CreateTemp("", "mdtohwpx-blank-*.hwpx")
	if err != nil {
		return "", "", errs.Wrap(errs.Template, err, "staging embedded blank.hwpx")
	}
	defer tmp.Close()
	if _, err := tmp.Write(data); err != nil {
		return "", "", errs.Wrap(errs.Template, err, "staging embedded blank.hwpx")
	}
	return tmp.Name(), tmp.Name(), nil
}
