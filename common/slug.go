package common

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// whitespace is every space separator plus the line breaks, tabs and BOM
// browsers treat as blank. RE2's \s is ASCII only.
const whitespace = `[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	edgeWhitespace = regexp.MustCompile(`^` + whitespace + `+|` + whitespace + `+$`)
	whitespaceRuns = regexp.MustCompile(whitespace + `+`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify turns a display name into a URL-safe identifier. It never fails:
// input with nothing usable in it produces an empty string.
func Slugify(name string) string {
	s := strings.ToLower(edgeWhitespace.ReplaceAllString(name, ""))
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = stripMarks(s)
	return nonSlugChars.ReplaceAllString(s, "")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
