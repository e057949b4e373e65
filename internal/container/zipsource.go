package container

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"
)

// zipImagePrefixes are the well-known internal locations §4.4 names for
// resolving an image path when the Markdown source itself came from a ZIP
// container (e.g. a DOCX-like bundle), tried in order.
var zipImagePrefixes = []string{"", "word/", "word/media/"}

// ResolveImageInZip looks for name (or name under one of the well-known
// prefixes) inside a ZIP-packaged Markdown source, returning its bytes if
// found. It walks entries itself rather than opening the whole archive into
// memory, guarding every entry name against Zip Slip path traversal the same
// way the Block Emitter guards image URLs in §4.3.7/§8 property 5 —
// an archive member is never trusted to be a safe relative path on its own.
func ResolveImageInZip(zipPath, name string) ([]byte, bool) {
	for _, prefix := range zipImagePrefixes {
		if data, ok := findZipEntry(zipPath, prefix+name); ok {
			return data, true
		}
	}
	return nil, false
}

func findZipEntry(zipPath, wantName string) ([]byte, bool) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, false
	}
	defer r.Close()

	for _, f := range r.File {
		if !safeZipEntryName(f.Name) || f.FileInfo().IsDir() {
			continue
		}
		if f.Name != wantName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, rc)
		rc.Close()
		if err != nil {
			return nil, false
		}
		return buf.Bytes(), true
	}
	return nil, false
}

// safeZipEntryName rejects absolute paths and ".." components in an archive
// member name, preventing a malicious ZIP-packaged Markdown source from
// resolving an image path outside the archive.
func safeZipEntryName(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
