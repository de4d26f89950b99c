package textclean

import "strings"

// corrections maps characters OCR commonly confuses for letters, and curly
// quotes to their straight forms.
var corrections = map[rune]rune{
	'0':      'O',
	'1':      'I',
	'|':      'I',
	'5':      'S',
	'8':      'B',
	'“': '"',
	'”': '"',
	'‘': '\'',
	'’': '\'',
}

// Correct applies the substitution table to every rune of text, independent of context.
func Correct(text string) string {
	return strings.Map(func(r rune) rune {
		if fixed, ok := corrections[r]; ok {
			return fixed
		}
		return r
	}, text)
}
