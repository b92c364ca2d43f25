// Package htmlsanitize strips markup from user-supplied text before it is
// stored. Donation titles, quantities, and addresses are plain text; any
// HTML a client submits is hostile or accidental either way.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML tags and attributes from s and trims the result.
func Strip(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
