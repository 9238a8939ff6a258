// Package links holds the immutable link data behind the page and the /links
// API. The data is built once at startup, either from the built-in defaults or
// from a YAML file, and only read afterwards.
package links

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dabasajay/linkspage/internal/domain"
)

// Store is a read-only view over the configured links. It is safe for
// concurrent use.
type Store struct {
	links   []domain.LinkRecord
	social  []domain.SocialLinkRecord
	profile domain.Profile
}

// file is the YAML layout accepted by LoadFile.
type file struct {
	Profile     domain.Profile            `yaml:"profile"`
	Links       []domain.LinkRecord       `yaml:"links"`
	SocialLinks []domain.SocialLinkRecord `yaml:"social_links"`
}

// New validates and copies the given records into a Store.
func New(profile domain.Profile, links []domain.LinkRecord, social []domain.SocialLinkRecord) (*Store, error) {
	for i, l := range links {
		if l.Name == "" || l.URL == "" {
			return nil, fmt.Errorf("%w: link %d needs both name and url", domain.ErrInvalidLinks, i)
		}
	}
	for i, s := range social {
		if s.Href == "" || s.IconURL == "" {
			return nil, fmt.Errorf("%w: social link %d needs both href and icon_url", domain.ErrInvalidLinks, i)
		}
	}

	return &Store{
		links:   append([]domain.LinkRecord(nil), links...),
		social:  append([]domain.SocialLinkRecord(nil), social...),
		profile: withProfileDefaults(profile),
	}, nil
}

// Default returns the built-in store.
func Default() *Store {
	s, err := New(defaultProfile, defaultLinks, defaultSocialLinks)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadFile reads a YAML links file. Profile fields left empty take the
// built-in values.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read links file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidLinks, path, err)
	}

	return New(f.Profile, f.Links, f.SocialLinks)
}

// Links returns the generic links in configured order.
func (s *Store) Links() []domain.LinkRecord {
	return append([]domain.LinkRecord(nil), s.links...)
}

// SocialLinks returns the social links in configured order.
func (s *Store) SocialLinks() []domain.SocialLinkRecord {
	return append([]domain.SocialLinkRecord(nil), s.social...)
}

// Profile returns the personal values used by the page chrome.
func (s *Store) Profile() domain.Profile {
	return s.profile
}

func withProfileDefaults(p domain.Profile) domain.Profile {
	if p.DisplayName == "" {
		p.DisplayName = defaultProfile.DisplayName
	}
	if p.AvatarURL == "" {
		p.AvatarURL = defaultProfile.AvatarURL
	}
	if p.Background == "" {
		p.Background = defaultProfile.Background
	}
	return p
}
