// Package wikitext provides title sanitization and text normalization for
// page records. Titles must be legal wiki page names: a fixed set of
// characters is rewritten, the rest of the illegal set is stripped.
package wikitext

import (
	"bytes"
	"strings"
	"unicode"
)

// rewrites maps characters that have a conventional replacement in titles.
var rewrites = map[rune]string{
	'#': "N",
	'[': "(",
	']': ")",
}

// illegal is the set of characters a wiki title may never contain and that
// have no rewrite; they are dropped outright.
const illegal = "{}|<>"

// SanitizeTitle converts a display name into a legal wiki page title:
// rewrite '#'->"N", '['->"(", ']'->")", strip '{', '}', '|', '<', '>' and
// control characters, collapse whitespace runs to single spaces, trim.
func SanitizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if strings.ContainsRune(illegal, r) || unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		if rep, ok := rewrites[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Capitalize upper-cases the first rune, leaving the rest untouched.
// Pool names like "moneybag" become "Moneybag".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// NormalizeUTF8LF converts CRLF to LF and ensures the output is valid UTF-8
// by replacing invalid byte sequences with the Unicode replacement character.
// Asset files occasionally carry Windows line endings and stray bytes.
func NormalizeUTF8LF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("�"))
}
