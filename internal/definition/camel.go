package definition

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CamelCase derives a field name from a label: "Featured Image" becomes
// "featuredImage", "HTML Title" becomes "htmlTitle".
func CamelCase(label string) string {
	// Casers are stateful and must not be shared between goroutines.
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	words := splitWords(label)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// splitWords breaks s into words at separators, at lower-to-upper case
// changes, before the last capital of an acronym followed by a lower-case
// letter, and between letters and digits. Apostrophes join their
// neighbours.
func splitWords(s string) []string {
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	var words []string
	for _, run := range strings.FieldsFunc(s, isSeparator) {
		words = append(words, splitRun([]rune(run))...)
	}
	return words
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func splitRun(rs []rune) []string {
	var words []string
	start := 0
	for i := 1; i < len(rs); i++ {
		prev, cur := rs[i-1], rs[i]
		var next rune
		if i+1 < len(rs) {
			next = rs[i+1]
		}
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(next)) ||
			(unicode.IsDigit(prev) != unicode.IsDigit(cur))
		if boundary {
			words = append(words, string(rs[start:i]))
			start = i
		}
	}
	return append(words, string(rs[start:]))
}
