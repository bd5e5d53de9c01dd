package export

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonHandleRe = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunRe = regexp.MustCompile(`-+`)
	asciiFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// Handle derives the export join key from a product title: NFKD-folded,
// ASCII-only, lower case, hyphen separated, hyphen runs collapsed. Distinct
// titles can collide on the same handle; the downstream platform resolves
// that, not this layer.
func Handle(title string) string {
	folded, _, err := transform.String(asciiFolder, title)
	if err != nil {
		folded = title
	}

	// Drop whatever did not fold down to ASCII.
	var b strings.Builder
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}

	handle := strings.ToLower(b.String())
	handle = strings.ReplaceAll(handle, " ", "-")
	handle = nonHandleRe.ReplaceAllString(handle, "")
	handle = hyphenRunRe.ReplaceAllString(handle, "-")
	return strings.Trim(handle, "-")
}
