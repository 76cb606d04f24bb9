package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)

// CitySlug turns a city name into the filename-safe form used in output
// paths, e.g. "Trois-Rivières" -> "trois-rivieres". Accents are stripped so
// fr-CA city names stay portable across filesystems.
func CitySlug(city string) string {
	// Decompose accents, then drop the combining marks.
	decomposed := norm.NFD.String(strings.ToLower(city))
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsSpace(r) {
			r = '-'
		}
		b.WriteRune(r)
	}

	slug := slugRegex.ReplaceAllString(b.String(), "")
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return slug
}
