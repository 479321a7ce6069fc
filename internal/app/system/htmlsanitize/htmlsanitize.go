// Package htmlsanitize strips dangerous markup from caller-supplied text
// before it is persisted or echoed back.
//
// Two policies:
//   - Sanitize: user-generated-content policy for rich fields
//     (project and task descriptions). Safe formatting tags survive,
//     scripts and event handlers do not.
//   - Text: strict policy for plain fields (names, titles, chat
//     messages). All markup is removed.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize cleans s with the UGC policy, preserving safe formatting HTML.
func Sanitize(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// Text removes all markup from s, leaving plain text.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
