package domain

import "errors"

// Domain-specific errors for request handling and startup validation.
var (
	// Request path errors
	ErrFetch         = errors.New("template fetch failed")
	ErrTransform     = errors.New("template transform failed")
	ErrSerialization = errors.New("links serialization failed")

	// Startup errors
	ErrInvalidSelector = errors.New("invalid selector")
	ErrInvalidLinks    = errors.New("invalid links data")
)

// ErrorKind returns a short label for the request path error wrapped in err.
// Used as a structured log attribute. Unknown errors are labelled "internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrTransform):
		return "transform"
	case errors.Is(err, ErrSerialization):
		return "serialization"
	default:
		return "internal"
	}
}
