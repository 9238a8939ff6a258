package rewriter

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dabasajay/linkspage/internal/domain"
)

// Selector matches elements by tag name, id, or both.
//
// Supported forms:
//   - tag:    "body", "title"
//   - #id:    "#links"
//   - tag#id: "div#links"
type Selector struct {
	Tag string // lower case; empty matches any tag
	ID  string // empty matches any id
}

// ParseSelector parses one of the supported selector forms.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("%w: empty selector", domain.ErrInvalidSelector)
	}

	tag, id, hasID := strings.Cut(s, "#")
	if hasID && id == "" {
		return Selector{}, fmt.Errorf("%w: %q has an empty id", domain.ErrInvalidSelector, s)
	}
	if !validName(tag, isTagByte) || !validName(id, isIDByte) {
		return Selector{}, fmt.Errorf("%w: unsupported syntax in %q", domain.ErrInvalidSelector, s)
	}

	return Selector{Tag: strings.ToLower(tag), ID: id}, nil
}

// Matches reports whether an element with the given lower-case tag name and
// attributes is selected.
func (s Selector) Matches(tag string, attrs []html.Attribute) bool {
	if s.Tag != "" && s.Tag != tag {
		return false
	}
	if s.ID == "" {
		return true
	}
	for _, a := range attrs {
		if a.Namespace == "" && a.Key == "id" {
			return a.Val == s.ID
		}
	}
	return false
}

func (s Selector) String() string {
	if s.ID == "" {
		return s.Tag
	}
	return s.Tag + "#" + s.ID
}

func validName(s string, ok func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !ok(s[i]) {
			return false
		}
	}
	return true
}

func isTagByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-'
}

func isIDByte(c byte) bool {
	return isTagByte(c) || c == '_'
}
