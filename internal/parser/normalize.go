package parser

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// Normalize flattens page text to a single line: newlines become spaces and
// any run of whitespace collapses to one space. Leading and trailing space
// is left in place.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return whitespaceRun.ReplaceAllString(text, " ")
}
