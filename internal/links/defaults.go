package links

import "github.com/dabasajay/linkspage/internal/domain"

var defaultProfile = domain.Profile{
	DisplayName: "Ajay Dabas",
	AvatarURL:   "https://dabasajay.codes/assets/img/profile.png",
	Background:  "background-color: #18bc9c",
}

var defaultLinks = []domain.LinkRecord{
	{Name: "My Portfolio", URL: "http://dabasajay.codes/"},
	{Name: "Cloudflare", URL: "https://www.cloudflare.com/"},
	{Name: "My Codeforces Profile", URL: "https://codeforces.com/profile/dabasajay"},
}

var defaultSocialLinks = []domain.SocialLinkRecord{
	{Href: "https://github.com/dabasajay", IconURL: "https://simpleicons.org/icons/github.svg"},
	{Href: "https://www.linkedin.com/in/dabasajay", IconURL: "https://simpleicons.org/icons/linkedin.svg"},
	{Href: "https://stackoverflow.com/users/12460593/ajay-dabas", IconURL: "https://simpleicons.org/icons/stackoverflow.svg"},
}
