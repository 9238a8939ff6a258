package rewriter

import (
	"io"
	"mime"
	"net/http"
)

// Transform returns a response with the same status and headers as resp whose
// body is resp's body run through Rewrite. The rewrite runs in its own
// goroutine feeding a pipe, so the returned body streams. Closing it stops
// the rewrite and closes resp.Body.
//
// Responses whose Content-Type is set to something other than text/html are
// returned unchanged.
func (rw *Rewriter) Transform(resp *http.Response) *http.Response {
	if !isHTML(resp.Header.Get("Content-Type")) {
		return resp
	}

	pr, pw := io.Pipe()

	out := new(http.Response)
	*out = *resp
	out.Header = resp.Header.Clone()
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	out.Header.Del("Content-Length")
	out.ContentLength = -1
	out.Body = pr

	src := resp.Body
	go func() {
		err := rw.Rewrite(pw, src)
		src.Close()
		pw.CloseWithError(err)
	}()

	return out
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	return mt == "text/html"
}
