// Package sanitize strips markup from caller-supplied text fields before
// they are stored. Titles, descriptions, subjects, and tags are plain text
// in this system; anything that looks like HTML is removed, not escaped.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text returns s with all HTML elements removed and surrounding whitespace
// trimmed.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
