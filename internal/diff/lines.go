package diff

import "strings"

// DefaultEOL is the line terminator used when none is configured.
const DefaultEOL = "\n"

// Split splits text into lines on eol. The terminator is not retained. Empty text yields zero lines; a
// trailing terminator yields a trailing empty line, as a plain split does.
func Split(text, eol string) []string {
	if text == "" {
		return []string{}
	}
	if eol == "" {
		eol = DefaultEOL
	}
	return strings.Split(text, eol)
}
