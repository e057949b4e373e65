// Package diagram rasterizes fenced "mermaid" code blocks via the kroki.io
// HTTP service, the optional external network contact named in §5.
// Rendering failure falls back silently to the plain-text code block. The
// POST-with-timeout request shape mirrors Generate's network calls in the
// retrieved pack's convert/epub image pipeline (bounded I/O, no retries,
// log-and-continue on error).
package diagram

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const renderTimeout = 10 * time.Second

const krokiURL = "https://kroki.io/mermaid/png"

// Renderer rasterizes mermaid source to a PNG file via kroki.io. A nil
// Renderer (or one with Disabled set) always reports failure, so callers
// fall back to a plain-text code block without touching the network.
type Renderer struct {
	Client   *http.Client
	Disabled bool
	log      *zap.Logger
}

func New(log *zap.Logger, disabled bool) *Renderer {
	return &Renderer{Client: &http.Client{Timeout: renderTimeout}, Disabled: disabled, log: log}
}

// Render POSTs the mermaid source to kroki.io and writes the returned PNG
// to a temporary file, returning its path. Any failure (network, non-200,
// disabled) returns ok=false; the caller must fall back to plain text.
func (r *Renderer) Render(ctx context.Context, source string) (path string, ok bool) {
	if r == nil || r.Disabled {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, krokiURL, bytes.NewBufferString(source))
	if err != nil {
		r.warn("building mermaid render request", err)
		return "", false
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := r.Client.Do(req)
	if err != nil {
		r.warn("calling kroki.io", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.warn("kroki.io returned non-200 status", nil)
		return "", false
	}

	tmp, err := os.CreateTemp("", "mdtohwpx-mermaid-*.png")
	if err != nil {
		r.warn("creating temp file for rendered diagram", err)
		return "", false
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		r.warn("writing rendered diagram", err)
		return "", false
	}
	return tmp.Name(), true
}

func (r *Renderer) warn(msg string, err error) {
	if r.log == nil {
		return
	}
	if err != nil {
		r.log.Warn(msg, zap.Error(err))
	} else {
		r.log.Warn(msg)
	}
}
