// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex parses and reformats single BibTeX citation records.
// Field ordering and escaping of the upstream record are not preserved;
// Format renders a deterministic form with alphabetically sorted fields.
package bibtex

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	nickng "github.com/nickng/bibtex"
)

// Entry is one BibTeX entry: its type ("article"), citation key, and a
// case-normalized field map.
type Entry struct {
	Type   string
	Key    string
	Fields map[string]string
}

// Parse reads a BibTeX blob and returns its first entry. Field names are
// lowercased and values trimmed.
func Parse(s string) (*Entry, error) {
	parsed, err := nickng.Parse(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parsing BibTeX: %w", err)
	}
	if len(parsed.Entries) == 0 {
		return nil, errors.New("no BibTeX entries in response")
	}

	src := parsed.Entries[0]
	e := &Entry{
		Type:   src.Type,
		Key:    src.CiteName,
		Fields: make(map[string]string, len(src.Fields)),
	}
	for name, value := range src.Fields {
		e.Fields[strings.ToLower(name)] = strings.TrimSpace(value.String())
	}
	return e, nil
}

// Format renders the entry with fields sorted alphabetically. The month
// field is rendered bare so it resolves as a BibTeX month macro; every
// other value is brace-delimited.
func (e *Entry) Format() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)
	for _, name := range names {
		if name == "month" {
			fmt.Fprintf(&b, "  month = %s,\n", e.Fields[name])
			continue
		}
		fmt.Fprintf(&b, "  %s = {%s},\n", name, e.Fields[name])
	}
	b.WriteString("}")
	return b.String()
}
