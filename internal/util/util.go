// internal/util/util.go
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining diacritics after canonical decomposition, so
// "Tiếng Việt" becomes "Tieng Viet".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a post title into a lowercase, hyphen-separated file name
// stem. Letters with diacritics are folded to ASCII where possible and any
// other run of non-alphanumerics collapses to a single hyphen.
func Slugify(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}
	// đ has no decomposition.
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
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
