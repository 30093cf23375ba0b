// Package ansi removes ANSI escape sequences from terminal output so it
// can be embedded in Markdown.
package ansi

import "regexp"

// Precompiled escape sequence patterns.
var (
	// CSI sequences: ESC [ parameters intermediate final (covers SGR color
	// codes, cursor movement and erase sequences found in tracebacks).
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

	// OSC sequences terminated by BEL or ST.
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

	// Two-character escapes (e.g. ESC ( B charset selection).
	twoCharPattern = regexp.MustCompile(`\x1b[@-Z\\-_]`)
)

// Strip removes escape sequences and nothing else; whitespace and blank
// lines survive untouched.
func Strip(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	s = twoCharPattern.ReplaceAllString(s, "")
	return s
}
