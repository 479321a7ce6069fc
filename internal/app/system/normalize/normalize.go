// Package normalize provides canonical forms for user-supplied identifiers
// so that lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email returns the canonical form of an email address: trimmed and
// lowercased. The unique index on users.email is built over this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
