package metadata

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTitleLength caps sanitized titles so generated filenames stay well under
// filesystem limits once the quality segments are appended.
const maxTitleLength = 200

// PlaceholderTitle stands in for titles that sanitize to nothing.
const PlaceholderTitle = "unnamed"

// SanitizeTitle reduces a title to letters, digits, and single spaces. Runs
// of whitespace collapse, leading separator characters are trimmed so the
// result can never look like a hidden file or a flag, and the result is
// length-capped. An empty result becomes PlaceholderTitle.
func SanitizeTitle(raw string) string {
	var b strings.Builder
	prevSpace := true
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	clean := strings.TrimSpace(b.String())
	clean = strings.TrimLeft(clean, ".- ")
	if len(clean) > maxTitleLength {
		// Cut on a rune boundary so multibyte letters never split.
		cut := maxTitleLength
		for cut > 0 && !utf8.RuneStart(clean[cut]) {
			cut--
		}
		clean = strings.TrimSpace(clean[:cut])
	}
	if clean == "" {
		return PlaceholderTitle
	}
	return clean
}

func atoiLoose(value string) int {
	// All-zero captures trim to the empty string.
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" {
		return 0
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0
	}
	return n
}
