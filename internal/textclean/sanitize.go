package textclean

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern        = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	whitespacePattern = regexp.MustCompile(`[\s\v\x1c-\x1f]+`)
	disallowedPattern = regexp.MustCompile(`[^\w\s.,!?"']`)
)

// Sanitize normalizes raw extracted text into a clean ASCII string.
//
// Compatibility forms are decomposed (NFKD) so accented Latin letters keep their
// base letter, then every non-ASCII rune is dropped. URLs are removed, whitespace
// runs collapse to a single space and only word characters, whitespace and
// the punctuation set . , ! ? " ' survive.
func Sanitize(text string) string {
	text = norm.NFKD.String(text)
	text = stripNonASCII(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = disallowedPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}
