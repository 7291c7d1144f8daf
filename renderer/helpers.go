package renderer

import (
	"strings"
	"unicode/utf8"
)

// Boxed frames msg between two starred borders, as the interactive menu
// displays the outcome of an operation:
//
//	+***************+
//	Hello, World!
//	+***************+
func Boxed(msg string) string {
	msg = strings.Trim(msg, "\n")
	width := 0
	for _, line := range strings.Split(msg, "\n") {
		width = max(width, utf8.RuneCountInString(line))
	}
	border := "+" + strings.Repeat("*", width+2) + "+"
	return border + "\n" + msg + "\n" + border + "\n"
}
