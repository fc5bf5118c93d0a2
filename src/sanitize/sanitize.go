// Package sanitize cleans text that came from Buildkite before it is shown
// in a terminal list or returned from an MCP tool. Commit messages and log
// lines can carry ANSI escapes and Buildkite timestamp markers.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Buildkite timestamp markers: \x1b_bk;t=...\x07
var buildkiteTimestamp = regexp.MustCompile(`\x1b_bk;t=[0-9]+\x07`)

// StripANSI removes ANSI escape sequences and Buildkite timestamp markers.
func StripANSI(s string) string {
	s = buildkiteTimestamp.ReplaceAllString(s, "")
	return ansi.Strip(s)
}

// Clean strips escapes, normalizes line endings and trims surrounding space.
func Clean(s string) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

// Message returns the subject line of a commit message, cleaned.
func Message(s string) string {
	s = Clean(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
