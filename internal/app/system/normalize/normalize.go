// Package normalize provides canonical forms for user-supplied identity
// fields so that lookups and uniqueness checks behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address. Empty or whitespace-only
// input normalizes to "".
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and uppercases a role string so "donor", " Donor " and
// "DONOR" all compare equal to the stored form.
func Role(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
