package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultTemplateURL is the page skeleton that gets rewritten.
	DefaultTemplateURL = "https://static-links-page.signalnerve.workers.dev"

	// DefaultFetchTimeout bounds a single template fetch.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultLinksFile is empty; the built-in link data is used.
	DefaultLinksFile = ""
)
