package emit

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/disintegration/imaging"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/ymseo741/mdtohwpx/internal/container"
	"github.com/ymseo741/mdtohwpx/internal/convconfig"
	"github.com/ymseo741/mdtohwpx/internal/docast"
	"github.com/ymseo741/mdtohwpx/internal/style"
)

// emitImage implements §4.3.7: path safety validation, fresh binary item
// id allocation, size resolution (explicit attrs, else decoded pixel
// dimensions, else defaults), and the MAX_IMAGE_COUNT placeholder
// fallback.
func (e *Emitter) emitImage(para *etree.Element, img docast.Image, baseCharPrID string, active style.Format) {
	if e.imageCount >= e.limits.MaxImageCount {
		e.emitTextRun(para, fmt.Sprintf("[image omitted: %s]", img.URL), e.reg.DeriveCharPr(baseCharPrID, active))
		return
	}

	if !imagePathSafe(img.URL) {
		if e.log != nil {
			e.log.Warn("rejecting image with unsafe path", zap.String("url", img.URL))
		}
		e.emitTextRun(para, fmt.Sprintf("[image rejected: %s]", img.URL), e.reg.DeriveCharPr(baseCharPrID, active))
		return
	}

	resolved, ok := e.resolveImagePath(img.URL)

	width, height := e.resolveImageSize(img.Attrs, resolved, ok)

	ext := imageExt(img.URL)
	id := fmt.Sprintf("img_%d_%s_%s", time.Now().UnixMilli(), randomSuffix(), imageNameSlug(img.URL))

	e.images = append(e.images, ImageRef{ID: id, Path: resolved, Ext: ext})
	e.imageCount++

	run := e.newRun(para, e.reg.DeriveCharPr(baseCharPrID, active))
	picture := run.CreateElement("hp:pic")
	sz := picture.CreateElement("hp:sz")
	sz.CreateAttr("width", strconv.Itoa(width))
	sz.CreateAttr("height", strconv.Itoa(height))
	img2 := picture.CreateElement("hp:img")
	img2.CreateAttr("binDataIDRef", id)
}

// isInternalDiagramPath recognizes the temp files internal/diagram.Render
// produces, which are legitimately absolute paths outside the Markdown
// source tree and must bypass the traversal check below (§4.3.7 "except
// temporary-file paths produced internally for diagrams").
func isInternalDiagramPath(url string) bool {
	return strings.HasPrefix(filepath.Base(url), "mdtohwpx-mermaid-")
}

// imagePathSafe rejects absolute paths and any path containing a ".."
// segment, per §4.3.7 and §8 property 5, except temp paths produced by
// internal/diagram.
func imagePathSafe(url string) bool {
	if isInternalDiagramPath(url) {
		return true
	}
	if filepath.IsAbs(url) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(url), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

func (e *Emitter) resolveImagePath(url string) (string, bool) {
	if _, err := os.Stat(url); err == nil {
		return url, true
	}
	if e.mdDir != "" {
		if joined, err := securejoin.SecureJoin(e.mdDir, url); err == nil {
			if _, err := os.Stat(joined); err == nil {
				return joined, true
			}
		}
	}
	if e.SourceZip != "" {
		if data, found := container.ResolveImageInZip(e.SourceZip, url); found {
			if tmp, err := os.CreateTemp("", "mdtohwpx-img-*."+imageExt(url)); err == nil {
				if _, err := tmp.Write(data); err == nil {
					tmp.Close()
					e.tempFiles = append(e.tempFiles, tmp.Name())
					return tmp.Name(), true
				}
				tmp.Close()
			}
		}
	}
	return "", false
}

func (e *Emitter) resolveImageSize(attrs docast.ImageAttrs, path string, resolvable bool) (int, int) {
	w, wOK := parseLength(attrs.Width)
	h, hOK := parseLength(attrs.Height)
	if wOK && hOK {
		return clampWidth(w, h, e.limits)
	}

	if resolvable {
		if img, err := imaging.Open(path); err == nil {
			bounds := img.Bounds()
			pxW, pxH := bounds.Dx(), bounds.Dy()
			if pxW > 0 && pxH > 0 {
				aspect := float64(pxH) / float64(pxW)
				switch {
				case wOK:
					return clampWidth(w, int(float64(w)*aspect), e.limits)
				case hOK:
					return clampWidth(int(float64(h)/aspect), h, e.limits)
				default:
					return clampWidth(convconfig.ToLunit(float64(pxW), "px"), convconfig.ToLunit(float64(pxH), "px"), e.limits)
				}
			}
		} else if e.log != nil {
			e.log.Warn("unable to decode image, using defaults", zap.String("path", path), zap.Error(err))
		}
	}

	return clampWidth(e.limits.ImageDefaultWidth, e.limits.ImageDefaultHeight, e.limits)
}

// clampWidth implements the oversize scaling of §4.3.7 step 4: if width
// exceeds IMAGE_MAX_WIDTH, scale both dimensions down proportionally.
func clampWidth[N int | float64](width, height N, limits convconfig.Limits) (int, int) {
	w, h := float64(width), float64(height)
	if w > float64(limits.ImageMaxWidth) {
		scale := float64(limits.ImageMaxWidth) / w
		w *= scale
		h *= scale
	}
	return int(w + 0.5), int(h + 0.5)
}

// parseLength parses a raw attribute like "320px", "12cm", "50%" into
// logical units via the unit table in §4.3.7.
func parseLength(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	unit := "px"
	numPart := raw
	for _, u := range []string{"px", "in", "cm", "mm", "pt", "%"} {
		if strings.HasSuffix(raw, u) {
			unit = u
			numPart = strings.TrimSuffix(raw, u)
			break
		}
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
	if err != nil {
		return 0, false
	}
	return int(convconfig.ToLunit(val, unit) + 0.5), true
}

func imageExt(url string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(url), "."))
	switch ext {
	case "png", "jpg", "jpeg", "gif", "bmp":
		return ext
	default:
		return "png"
	}
}

// imageNameSlug derives a short, filesystem-and-XML-id-safe fragment from
// the image's original base name, giving binary item ids a human-readable
// tail instead of being purely numeric.
func imageNameSlug(url string) string {
	base := strings.TrimSuffix(filepath.Base(url), filepath.Ext(url))
	s := slug.Make(base)
	if s == "" {
		return "img"
	}
	if len(s) > 24 {
		s = s[:24]
	}
	return s
}

func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "0"
	}
	return fmt.Sprintf("%x", b)
}
