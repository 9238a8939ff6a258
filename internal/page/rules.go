// Package page wires the landing page's fixed rewrite rules to the link data.
package page

import (
	"html"
	"strings"

	"github.com/dabasajay/linkspage/internal/domain"
	"github.com/dabasajay/linkspage/internal/links"
	"github.com/dabasajay/linkspage/internal/rewriter"
)

// Selectors of the template nodes the page rewrites.
const (
	SelectorLinks   = "div#links"
	SelectorProfile = "div#profile"
	SelectorAvatar  = "img#avatar"
	SelectorName    = "h1#name"
	SelectorSocial  = "div#social"
	SelectorTitle   = "title"
	SelectorBody    = "body"
)

// NewRewriter builds the page rule set over store. The markup for the link
// sections is rendered once here; handlers only copy it into the stream.
func NewRewriter(store *links.Store) *rewriter.Rewriter {
	profile := store.Profile()

	rules := []struct {
		selector string
		handler  rewriter.ElementHandler
	}{
		{SelectorLinks, LinksHandler{markup: linksMarkup(store.Links())}},
		{SelectorProfile, ProfileHandler{}},
		{SelectorAvatar, AvatarHandler{src: profile.AvatarURL}},
		{SelectorName, TextHandler{text: profile.DisplayName}},
		{SelectorSocial, SocialHandler{markup: socialMarkup(store.SocialLinks())}},
		{SelectorTitle, TextHandler{text: profile.DisplayName}},
		{SelectorBody, BackgroundHandler{style: profile.Background}},
	}

	rw := rewriter.New()
	for _, r := range rules {
		if err := rw.On(r.selector, r.handler); err != nil {
			// The selectors above are constants.
			panic(err)
		}
	}
	return rw
}

// LinksHandler appends one anchor per generic link.
type LinksHandler struct {
	markup []string
}

func (h LinksHandler) Element(e *rewriter.Element) error {
	for _, m := range h.markup {
		e.Append(m, true)
	}
	return nil
}

// ProfileHandler un-hides the profile container.
type ProfileHandler struct{}

func (ProfileHandler) Element(e *rewriter.Element) error {
	e.RemoveAttribute("style")
	return nil
}

// AvatarHandler points the avatar image at the configured picture.
type AvatarHandler struct {
	src string
}

func (h AvatarHandler) Element(e *rewriter.Element) error {
	e.SetAttribute("src", h.src)
	return nil
}

// TextHandler replaces the element's children with a fixed text.
type TextHandler struct {
	text string
}

func (h TextHandler) Element(e *rewriter.Element) error {
	e.SetInnerContent(h.text)
	return nil
}

// SocialHandler un-hides the social bar and fills it with icon links.
type SocialHandler struct {
	markup []string
}

func (h SocialHandler) Element(e *rewriter.Element) error {
	e.RemoveAttribute("style")
	for _, m := range h.markup {
		e.Append(m, true)
	}
	return nil
}

// BackgroundHandler sets the page background.
type BackgroundHandler struct {
	style string
}

func (h BackgroundHandler) Element(e *rewriter.Element) error {
	e.SetAttribute("style", h.style)
	return nil
}

func linksMarkup(records []domain.LinkRecord) []string {
	out := make([]string, len(records))
	for i, l := range records {
		var b strings.Builder
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(l.URL))
		b.WriteString(`" rel="noopener" target="_blank">`)
		b.WriteString(html.EscapeString(l.Name))
		b.WriteString(`</a>`)
		out[i] = b.String()
	}
	return out
}

func socialMarkup(records []domain.SocialLinkRecord) []string {
	out := make([]string, len(records))
	for i, s := range records {
		var b strings.Builder
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(s.Href))
		b.WriteString(`" rel="noopener" target="_blank"><img src="`)
		b.WriteString(html.EscapeString(s.IconURL))
		b.WriteString(`"/></a>`)
		out[i] = b.String()
	}
	return out
}
