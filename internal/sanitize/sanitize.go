// Package sanitize strips HTML-like remnants from terminal-title text.
// An OSC window-title sequence can carry arbitrary bytes, including
// "<...>"-shaped content some shells echo back verbatim; this package
// gives termwatch one place to launder that text before it reaches a
// ParserContext or crosses a transport boundary.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var titlePolicy = bluemonday.StrictPolicy()

// Title strips all markup from a terminal title string, returning
// plain text safe to embed in a ParserContext or a JSON response.
func Title(raw string) string {
	if raw == "" {
		return ""
	}
	return titlePolicy.Sanitize(raw)
}
