package catalog

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns an arbitrary title into its URL-safe form: lower-case,
// runs of non-alphanumeric characters collapsed to a single hyphen, no
// leading or trailing hyphen. Stored slugs are always in this form, and
// inbound slug parameters are passed through it before lookup so URL
// capitalization or punctuation never matters.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
