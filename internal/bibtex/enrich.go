// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"strings"
	"unicode/utf8"
)

// NormalizeMonth rewrites the month field to its lowercase 3-letter form
// ("August", "{aug.}" and "AUG" all become "aug"). Entries without a month
// field are left untouched.
func NormalizeMonth(e *Entry) {
	m, ok := e.Fields["month"]
	if !ok {
		return
	}
	m = strings.ToLower(strings.Trim(m, "{}\" ."))
	if utf8.RuneCountInString(m) > 3 {
		runes := []rune(m)
		m = string(runes[:3])
	}
	if m == "" {
		delete(e.Fields, "month")
		return
	}
	e.Fields["month"] = m
}

// CiteKey derives a citation key of the form
// <firstAuthorFamily><year><journalInitials>, e.g. "Culjat2010uim&b".
// The initials come from shortjournal when present, then journal, then
// publisher. Missing authors yield "unknown"; a missing year yields "xxxx".
func CiteKey(e *Entry) string {
	first := "unknown"
	if author := e.Fields["author"]; author != "" {
		name, _, _ := strings.Cut(author, " and ")
		family, _, _ := strings.Cut(name, ",")
		if family = strings.TrimSpace(family); family != "" {
			first = family
		}
	}

	year := e.Fields["year"]
	if year == "" {
		year = "xxxx"
	}

	var suffix string
	for _, field := range []string{"shortjournal", "journal", "publisher"} {
		if v := e.Fields[field]; v != "" {
			suffix = KeyFromPhrase(v)
			break
		}
	}

	return first + year + suffix
}

// KeyFromPhrase concatenates the lowercased first letter of each word:
// "Ultrasound in Medicine & Biology" -> "uim&b".
func KeyFromPhrase(phrase string) string {
	var b strings.Builder
	for _, word := range strings.Fields(phrase) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
