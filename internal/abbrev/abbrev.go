// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package abbrev shortens journal titles using an LTWA-style abbreviation
// list. The list is downloaded once into the per-user data directory and
// indexed in SQLite for word and prefix lookups.
package abbrev

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// notAbbreviated marks list entries whose word has no abbreviation.
const notAbbreviated = "n.a."

// shortTitleLimit is the length below which a single-word title is kept
// as-is.
const shortTitleLimit = 12

// ignoreWords are connectors dropped from abbreviated titles.
var ignoreWords = map[string]bool{
	"of": true, "and": true, "in": true, "at": true, "on": true,
	"the": true, "&": true, "für": true, "ab": true, "um": true,
}

// Lookuper resolves a single lowercase word to its abbreviation.
type Lookuper interface {
	Lookup(ctx context.Context, word string) (string, bool, error)
}

// Abbreviator shortens journal titles word by word.
type Abbreviator struct {
	rules Lookuper
}

// New returns an Abbreviator backed by rules.
func New(rules Lookuper) *Abbreviator {
	return &Abbreviator{rules: rules}
}

// Abbreviate shortens a journal title. Subtitles (text after ":") are
// dropped, single short words are kept as-is, connector words are removed,
// and each remaining word is replaced by its listed abbreviation when one
// exists. Words marked "n.a." in the list and unlisted words are kept;
// all-uppercase words keep their casing, everything else is capitalized.
func (a *Abbreviator) Abbreviate(ctx context.Context, title string) (string, error) {
	title, _, _ = strings.Cut(title, ":")
	title = strings.TrimSpace(title)

	words := strings.Fields(title)
	if len(words) == 1 && utf8.RuneCountInString(words[0]) < shortTitleLimit {
		return title, nil
	}

	abbreviated := make([]string, 0, len(words))
	for _, word := range words {
		lower := strings.ToLower(word)
		if ignoreWords[lower] {
			continue
		}

		rule, ok, err := a.rules.Lookup(ctx, lower)
		if err != nil {
			return "", err
		}
		switch {
		case ok && rule != notAbbreviated:
			abbreviated = append(abbreviated, capitalize(rule))
		case ok:
			abbreviated = append(abbreviated, capitalize(lower))
		case isAllUpper(word):
			abbreviated = append(abbreviated, word)
		default:
			abbreviated = append(abbreviated, capitalize(lower))
		}
	}
	return strings.Join(abbreviated, " "), nil
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// isAllUpper reports whether s contains at least one letter and no
// lowercase letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
