package naming

import (
	"strings"
	"unicode"
)

const (
	minNameLen = 3
	maxNameLen = 50
)

// baseWhitelist are the characters allowed in every name regardless of style.
func baseAllowed(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '.', r == '(', r == ')', r == '[', r == ']':
		return true
	}
	return false
}

// Sanitize strips everything outside the whitelist (plus the style's
// decorative glyphs), collapses runs of separators, trims leading and
// trailing separators, and enforces the length ceiling.
func Sanitize(raw string, style Style) string {
	glyphs := styleGlyphs[style]

	var b strings.Builder
	for _, r := range raw {
		if baseAllowed(r) || isGlyph(r, glyphs) {
			b.WriteRune(r)
		}
	}

	s := collapseSeparators(b.String())
	s = strings.Trim(s, "_-.")

	if len([]rune(s)) > maxNameLen {
		s = string([]rune(s)[:maxNameLen])
		s = strings.Trim(s, "_-.")
	}
	return s
}

func isGlyph(r rune, glyphs []string) bool {
	for _, g := range glyphs {
		if strings.ContainsRune(g, r) {
			return true
		}
	}
	return false
}

// collapseSeparators replaces runs of _ - . with a single occurrence of the
// first separator in the run.
func collapseSeparators(s string) string {
	var b strings.Builder
	var inRun bool
	for _, r := range s {
		sep := r == '_' || r == '-' || r == '.'
		if sep {
			if !inRun {
				b.WriteRune(r)
			}
			inRun = true
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// Valid reports whether a sanitized name satisfies the naming invariants:
// length within bounds and at least one letter.
func Valid(s string) bool {
	n := len([]rune(s))
	if n < minNameLen || n > maxNameLen {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
