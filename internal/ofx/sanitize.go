// Package ofx provides tolerant parsing of OFX bank statement files.
//
// Real-world OFX exports are loosely SGML-like: leaf tags usually have no
// closing tag, header conventions vary by bank, and many files fail strict
// validation. The package favors graceful degradation: a sanitizing pass,
// a lenient tag-tree parser, and a flat regex extractor used as a fallback
// when the tree cannot be traversed.
package ofx

import (
	"regexp"
	"strings"
)

// PlaceholderDescription substitutes a missing or empty transaction memo.
const PlaceholderDescription = "No description"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize normalizes a raw statement payload before structural parsing.
// Control characters, stray NUL bytes, and noncharacter code points from
// bad encodings are removed, line endings are normalized, and all
// whitespace runs collapse to single spaces.
//
// The transform is lossy: structural newlines are sacrificed for
// robustness, since the tag parser depends only on tag delimiters.
// Sanitize never fails; unusable input yields an empty string.
func Sanitize(raw string) string {
	// Drop C0/C1 control characters, keeping standard whitespace.
	s := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, raw)

	// Noncharacter code points seen in statements with broken encodings.
	s = strings.ReplaceAll(s, "\uFFFE", "")
	s = strings.ReplaceAll(s, "\uFFFF", "")

	// Literal NUL, in case the first pass was bypassed by re-decoding.
	s = strings.ReplaceAll(s, "\x00", "")

	// Normalize CRLF and lone CR to LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// Second pass for anything the earlier steps uncovered, plus
	// private-use characters some exports embed.
	s = strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return r
		}
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		if r >= 0xE000 && r <= 0xF8FF {
			return -1
		}
		return r
	}, s)

	// Collapse all whitespace runs, including the normalized newlines.
	s = whitespaceRun.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
