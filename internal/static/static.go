package static

import _ "embed"

// ErrorHTML is the page served whenever building a response fails. It never
// carries error details.
//
//go:embed error.html
var ErrorHTML string

// ErrorContentType is the Content-Type of ErrorHTML.
const ErrorContentType = "text/html;charset=UTF-8"
