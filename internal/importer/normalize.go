package importer

import (
	"regexp"
	"strings"
	"unicode"
)

var separatorRuns = regexp.MustCompile(`[-_\s]+`)

// NormalizeCategoryName reduces a category name to its comparison form:
// lowercased, trimmed, with any run of whitespace, hyphens or underscores
// collapsed into a single space. Used for equality only; the stored name
// keeps its display form.
func NormalizeCategoryName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = separatorRuns.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// TitleCaseName lowercases the name and uppercases the first letter of every
// space-separated word, e.g. "jAvA" -> "Java".
func TitleCaseName(name string) string {
	runes := []rune(strings.ToLower(name))
	atWordStart := true
	for i, r := range runes {
		if atWordStart {
			runes[i] = unicode.ToUpper(r)
		}
		atWordStart = unicode.IsSpace(r)
	}
	return string(runes)
}
