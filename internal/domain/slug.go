package domain

import (
	"strings"
	"unicode"
)

// Slugify keeps latin letters, digits and Cyrillic; any other run becomes a single hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range s {
		if r == '\'' || r == '"' {
			continue
		}
		if keepSlugRune(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func keepSlugRune(r rune) bool {
	if r < unicode.MaxASCII {
		return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
	}
	return r >= 0x0400 && r <= 0x04FF
}

// SlugOr returns Slugify(s) or fallback when nothing survives.
func SlugOr(s, fallback string) string {
	if out := Slugify(s); out != "" {
		return out
	}
	return fallback
}
