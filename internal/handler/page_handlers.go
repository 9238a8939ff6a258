package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dabasajay/linkspage/internal/domain"
	"github.com/dabasajay/linkspage/internal/middleware"
)

const htmlMediaType = "text/html"

// hopHeaders are connection-level headers that are not forwarded from the
// template response.
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Proxy-Connection":    true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// handlePage fetches the template and streams it back rewritten.
//
// Nothing is written to the client until the first rewritten chunk is ready,
// so every failure up to that point still gets the error page. A failure
// after that aborts the response.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	resp, err := h.fetcher.Template(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := h.rewriter.Transform(resp)
	defer out.Body.Close()

	cw := &commitWriter{w: w, header: out.Header, status: out.StatusCode}
	if err := h.copyBody(cw, out); err != nil {
		if !cw.committed {
			h.respondError(w, r, err)
			return
		}
		middleware.LoggerFromContext(r.Context()).Error("response aborted mid-stream",
			"error", err,
			"kind", domain.ErrorKind(err),
			"path", r.URL.Path,
		)
		panic(http.ErrAbortHandler)
	}

	// Empty bodies still need the status line.
	cw.commit()
}

func (h *Handler) copyBody(dst io.Writer, resp *http.Response) error {
	src := &errReader{r: resp.Body}

	var err error
	if h.minifier != nil && mediaType(resp.Header.Get("Content-Type")) == htmlMediaType {
		err = h.minifier.Minify(htmlMediaType, dst, src)
	} else {
		_, err = io.Copy(dst, src)
	}

	if src.err != nil {
		// Bodies that bypass the rewriter carry bare transport errors.
		if !errors.Is(src.err, domain.ErrFetch) && !errors.Is(src.err, domain.ErrTransform) {
			return fmt.Errorf("%w: read template: %w", domain.ErrFetch, src.err)
		}
		return src.err
	}
	return err
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return htmlMediaType
	}
	return mt
}

// commitWriter defers writing the status line and the upstream headers until
// the first non-empty write.
type commitWriter struct {
	w         http.ResponseWriter
	header    http.Header
	status    int
	committed bool
}

func (c *commitWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c.commit()

	n, err := c.w.Write(p)
	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}

func (c *commitWriter) commit() {
	if c.committed {
		return
	}
	c.committed = true

	dst := c.w.Header()
	for k, vv := range c.header {
		if hopHeaders[k] {
			continue
		}
		if _, ok := dst[k]; ok {
			continue
		}
		dst[k] = vv
	}
	c.w.WriteHeader(c.status)
}

// errReader remembers the first read error, for consumers that may not
// report it.
type errReader struct {
	r   io.Reader
	err error
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF && e.err == nil {
		e.err = err
	}
	return n, err
}
