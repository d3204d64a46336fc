// AngelaMos | 2026
// sanitize.go

package core

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML tag and trims surrounding whitespace.
// The result is plain text: entities the policy emits are decoded again so
// that characters like & and ' are stored as typed.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
