package domain

// LinkRecord is an entry of the generic link list. It backs both the /links
// API and the anchors rendered into the page.
type LinkRecord struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// SocialLinkRecord is an icon link shown in the social bar.
type SocialLinkRecord struct {
	Href    string `json:"href" yaml:"href"`
	IconURL string `json:"icon_url" yaml:"icon_url"`
}

// Profile holds the personal values written into the page chrome.
type Profile struct {
	DisplayName string `yaml:"display_name"`
	AvatarURL   string `yaml:"avatar_url"`
	// Background is a full CSS declaration, e.g. "background-color: #18bc9c".
	Background string `yaml:"background"`
}
