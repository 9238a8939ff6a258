// Package rewriter applies selector-scoped mutations to an HTML document
// while it streams from a reader to a writer.
//
// A Rewriter holds an ordered list of (selector, handler) rules. Rewrite walks
// the input token by token with golang.org/x/net/html's Tokenizer and never
// holds more than the current token plus the stack of open element names.
// Tokens that no rule touches are copied through byte for byte, so a rule set
// that matches nothing reproduces its input exactly.
package rewriter

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/dabasajay/linkspage/internal/domain"
)

// ElementHandler mutates a matched element.
type ElementHandler interface {
	Element(e *Element) error
}

// ElementHandlerFunc adapts a function to ElementHandler.
type ElementHandlerFunc func(e *Element) error

// Element calls f(e).
func (f ElementHandlerFunc) Element(e *Element) error {
	return f(e)
}

type rule struct {
	selector Selector
	handler  ElementHandler
}

// Rewriter is an immutable-after-setup rule set. Once rules are registered it
// is safe to call Rewrite and Transform from many goroutines.
type Rewriter struct {
	rules []rule
}

// New returns an empty Rewriter.
func New() *Rewriter {
	return &Rewriter{}
}

// On registers handler for elements matching selector. Rules run in
// registration order when several match the same element.
func (rw *Rewriter) On(selector string, handler ElementHandler) error {
	sel, err := ParseSelector(selector)
	if err != nil {
		return err
	}
	rw.rules = append(rw.rules, rule{selector: sel, handler: handler})
	return nil
}

// Selectors returns the registered selectors in registration order.
func (rw *Rewriter) Selectors() []Selector {
	out := make([]Selector, len(rw.rules))
	for i, r := range rw.rules {
		out[i] = r.selector
	}
	return out
}

type openElement struct {
	tag string
	el  *Element // nil unless content is pending for this element
}

// run holds the per-call state of one Rewrite.
type run struct {
	rw    *Rewriter
	w     *bufio.Writer
	stack []openElement
	// skip is the stack index of the element whose original children are
	// being dropped, or -1.
	skip int
	raw  []byte
}

// Rewrite copies the HTML document from src to dst, applying the registered
// rules. Errors reading src are wrapped in domain.ErrFetch. Errors writing
// dst, errors returned by a handler and handler panics are wrapped in
// domain.ErrTransform.
func (rw *Rewriter) Rewrite(dst io.Writer, src io.Reader) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: handler panic: %v", domain.ErrTransform, p)
		}
	}()

	r := &run{
		rw:   rw,
		w:    bufio.NewWriter(dst),
		skip: -1,
	}
	sr := &sourceReader{r: src}
	if err := r.loop(html.NewTokenizer(sr)); err != nil {
		if sr.err != nil && errors.Is(err, sr.err) {
			return fmt.Errorf("%w: read template: %w", domain.ErrFetch, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrTransform, err)
	}
	return nil
}

// sourceReader remembers the first read error so it can be told apart from
// handler and write errors.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

func (r *run) loop(z *html.Tokenizer) error {
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			// Elements still open at EOF get their queued content.
			if err := r.popTo(0); err != nil {
				return err
			}
			return r.w.Flush()
		}

		// Raw is only valid until the tag name is lower-cased by Token.
		r.raw = append(r.raw[:0], z.Raw()...)

		var err error
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			err = r.startTag(z.Token())
		case html.EndTagToken:
			name, _ := z.TagName()
			err = r.endTag(string(name))
		default:
			if r.skip < 0 {
				_, err = r.w.Write(r.raw)
			}
		}
		if err != nil {
			return err
		}
	}
}

func (r *run) startTag(tok html.Token) error {
	// A trailing slash only closes void elements and foreign (svg, math)
	// elements; <div/> is an open div.
	contentless := isVoid(tok.Data) ||
		(tok.Type == html.SelfClosingTagToken && (isForeignRoot(tok.Data) || r.inForeignContent()))

	if r.skip >= 0 {
		if !contentless {
			r.stack = append(r.stack, openElement{tag: tok.Data})
		}
		return nil
	}

	var el *Element
	for _, ru := range r.rw.rules {
		if !ru.selector.Matches(tok.Data, tok.Attr) {
			continue
		}
		if el == nil {
			el = &Element{tag: tok.Data, attrs: tok.Attr, contentless: contentless}
		}
		if err := ru.handler.Element(el); err != nil {
			return fmt.Errorf("handler for %s: %w", ru.selector, err)
		}
	}

	if el != nil && el.attrsChanged {
		tok.Attr = el.attrs
		if _, err := r.w.WriteString(tok.String()); err != nil {
			return err
		}
	} else if _, err := r.w.Write(r.raw); err != nil {
		return err
	}

	if contentless {
		return nil
	}

	open := openElement{tag: tok.Data}
	if el != nil && el.hasPendingContent() {
		open.el = el
	}
	r.stack = append(r.stack, open)

	if open.el != nil && open.el.inner != nil {
		if _, err := r.w.WriteString(*open.el.inner); err != nil {
			return err
		}
		r.skip = len(r.stack) - 1
	}
	return nil
}

func (r *run) inForeignContent() bool {
	for _, o := range r.stack {
		if isForeignRoot(o.tag) {
			return true
		}
	}
	return false
}

func isForeignRoot(tag string) bool {
	return tag == "svg" || tag == "math"
}

func (r *run) endTag(name string) error {
	i := len(r.stack) - 1
	for ; i >= 0; i-- {
		if r.stack[i].tag == name {
			break
		}
	}

	if i < 0 {
		// Stray end tag, nothing of ours to close.
		if r.skip >= 0 {
			return nil
		}
		_, err := r.w.Write(r.raw)
		return err
	}

	suppressed := r.skip >= 0 && i > r.skip
	if err := r.popTo(i); err != nil {
		return err
	}
	if suppressed {
		return nil
	}
	_, err := r.w.Write(r.raw)
	return err
}

// popTo closes stack[i:] from the top down, writing queued content for each
// element that is not inside a dropped subtree.
func (r *run) popTo(i int) error {
	for j := len(r.stack) - 1; j >= i; j-- {
		if r.skip >= 0 && j > r.skip {
			continue
		}
		if el := r.stack[j].el; el != nil {
			for _, content := range el.appended {
				if _, err := r.w.WriteString(content); err != nil {
					return err
				}
			}
		}
		if j == r.skip {
			r.skip = -1
		}
	}
	r.stack = r.stack[:i]
	return nil
}
