package rewriter_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabasajay/linkspage/internal/domain"
	"github.com/dabasajay/linkspage/internal/rewriter"
)

func htmlResponse(status int, contentType string, body io.Reader) *http.Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	h.Set("Content-Length", "123")
	h.Set("X-Upstream", "yes")
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(body),
		ContentLength: 123,
	}
}

func TestTransform(t *testing.T) {
	rw := rewriter.New()
	on(t, rw, "h1#name", func(e *rewriter.Element) { e.SetInnerContent("Ajay Dabas") })

	in := htmlResponse(http.StatusOK, "text/html;charset=UTF-8", strings.NewReader(`<h1 id="name"></h1>`))
	out := rw.Transform(in)
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)

	assert.Equal(t, `<h1 id="name">Ajay Dabas</h1>`, string(body))
	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, "text/html;charset=UTF-8", out.Header.Get("Content-Type"))
	assert.Equal(t, "yes", out.Header.Get("X-Upstream"))
	assert.Empty(t, out.Header.Get("Content-Length"))
	assert.Equal(t, int64(-1), out.ContentLength)
	// the input headers are not modified
	assert.Equal(t, "123", in.Header.Get("Content-Length"))
}

func TestTransform_KeepsStatus(t *testing.T) {
	out := rewriter.New().Transform(htmlResponse(http.StatusTeapot, "text/html", strings.NewReader("<p>")))
	defer out.Body.Close()

	assert.Equal(t, http.StatusTeapot, out.StatusCode)
}

func TestTransform_NonHTMLPassesThrough(t *testing.T) {
	rw := rewriter.New()
	on(t, rw, "p", func(e *rewriter.Element) { e.SetInnerContent("changed") })

	in := htmlResponse(http.StatusOK, "application/json", strings.NewReader(`{"p":"<p>x</p>"}`))
	out := rw.Transform(in)

	assert.Same(t, in, out)
}

func TestTransform_ReadErrorSurfacesOnBody(t *testing.T) {
	boom := errors.New("upstream reset")
	src := io.MultiReader(strings.NewReader("<html>"), iotest.ErrReader(boom))

	out := rewriter.New().Transform(htmlResponse(http.StatusOK, "text/html", src))
	defer out.Body.Close()

	_, err := io.ReadAll(out.Body)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, err, boom)
}

func TestTransform_HandlerPanicSurfacesOnBody(t *testing.T) {
	rw := rewriter.New()
	require.NoError(t, rw.On("p", rewriter.ElementHandlerFunc(func(*rewriter.Element) error {
		panic("bad rule")
	})))

	out := rw.Transform(htmlResponse(http.StatusOK, "text/html", strings.NewReader("<p>x</p>")))
	defer out.Body.Close()

	_, err := io.ReadAll(out.Body)
	assert.ErrorIs(t, err, domain.ErrTransform)
	assert.Contains(t, err.Error(), "bad rule")
}
