// Package headline holds the rule applied to the resume headline on every run.
package headline

import (
	"strings"
	"unicode"
)

// TogglePeriod strips trailing whitespace from text, then removes one
// trailing period if present or appends one otherwise.
func TogglePeriod(text string) string {
	stripped := strings.TrimRightFunc(text, unicode.IsSpace)
	if strings.HasSuffix(stripped, ".") {
		return strings.TrimSuffix(stripped, ".")
	}
	return stripped + "."
}

// Change describes the planned update of a headline value.
type Change struct {
	Before  string
	After   string
	Changed bool
}

// Plan computes the toggled value for current.
func Plan(current string) Change {
	after := TogglePeriod(current)
	return Change{
		Before:  current,
		After:   after,
		Changed: after != current,
	}
}
