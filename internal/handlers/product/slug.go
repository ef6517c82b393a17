package product

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify normalise un nom en slug URL : minuscules ASCII, accents
// décomposés puis retirés, tout le reste remplacé par des tirets.
func Slugify(name string) string {
	decomposed := norm.NFD.String(strings.ToLower(name))

	var b strings.Builder
	lastDash := true
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// marque diacritique issue de la décomposition
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
