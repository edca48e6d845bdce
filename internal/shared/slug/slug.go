package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	valid    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// FromName derives a URL-safe slug from a display name, falling back to def.
func FromName(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return def
	}
	return s
}

// Normalize trims surrounding whitespace. An empty result means "no slug".
func Normalize(s string) string { return strings.TrimSpace(s) }

// Valid reports whether s is a non-empty, URL-safe slug.
func Valid(s string) bool { return valid.MatchString(s) }
