package utils

import (
	"strings"
	"unicode"
)

// CountWords counts the words of a document body once markup is stripped
func CountWords(body string) int {
	return len(strings.FieldsFunc(PlainText(body), func(r rune) bool {
		return unicode.IsSpace(r)
	}))
}
