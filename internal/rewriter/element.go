package rewriter

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is the handle passed to an ElementHandler for a matched start tag.
// It is only valid for the duration of the handler call; content queued on it
// is written out as the element streams past.
type Element struct {
	tag   string
	attrs []html.Attribute
	// contentless elements (void, or self-closing inside svg or math) accept
	// attribute changes only
	contentless bool

	attrsChanged bool
	inner        *string
	appended     []string
}

// TagName returns the lower-case tag name.
func (e *Element) TagName() string {
	return e.tag
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttribute sets an attribute, replacing any existing value.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	e.attrsChanged = true
	for i := range e.attrs {
		if e.attrs[i].Namespace == "" && e.attrs[i].Key == name {
			e.attrs[i].Val = value
			return
		}
	}
	e.attrs = append(e.attrs, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute removes an attribute. Removing a missing attribute is a no-op.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	kept := e.attrs[:0]
	for _, a := range e.attrs {
		if a.Namespace == "" && a.Key == name {
			e.attrsChanged = true
			continue
		}
		kept = append(kept, a)
	}
	e.attrs = kept
}

// SetInnerContent replaces all children of the element with text. The text
// is HTML-escaped.
func (e *Element) SetInnerContent(text string) {
	if e.contentless {
		return
	}
	escaped := html.EscapeString(text)
	e.inner = &escaped
}

// Append queues content to be written after the element's existing children,
// right before its end tag. With isHTML set, content is written as raw markup;
// otherwise it is escaped.
func (e *Element) Append(content string, isHTML bool) {
	if e.contentless {
		return
	}
	if !isHTML {
		content = html.EscapeString(content)
	}
	e.appended = append(e.appended, content)
}

func (e *Element) hasPendingContent() bool {
	return e.inner != nil || len(e.appended) > 0
}

// isVoid reports whether tag never has children or an end tag.
func isVoid(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr:
		return true
	}
	return false
}
