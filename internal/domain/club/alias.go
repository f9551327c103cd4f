package club

import (
	"strings"

	"github.com/riskibarqy/jersey-metadata/internal/platform/textnorm"
)

// AliasTable maps local-language club names to their canonical form and back.
// Keys are diacritic-folded so "FC København" and "fc kobenhavn" hit the same entry.
type AliasTable struct {
	terms map[string][]string
}

// NewAliasTable builds a bidirectional table from local -> canonical pairs.
func NewAliasTable(pairs map[string]string) *AliasTable {
	t := &AliasTable{terms: make(map[string][]string, len(pairs)*2)}
	for local, canonical := range pairs {
		t.Add(local, canonical)
	}
	return t
}

func (t *AliasTable) Add(local, canonical string) {
	local = strings.TrimSpace(local)
	canonical = strings.TrimSpace(canonical)
	if local == "" || canonical == "" {
		return
	}
	if t.terms == nil {
		t.terms = make(map[string][]string)
	}
	t.link(textnorm.Fold(local), canonical)
	t.link(textnorm.Fold(canonical), local)
}

func (t *AliasTable) link(key, term string) {
	for _, existing := range t.terms[key] {
		if existing == term {
			return
		}
	}
	t.terms[key] = append(t.terms[key], term)
}

// Len is the number of folded keys.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.terms)
}

// Terms returns the search terms for input: mapped aliases first, then the
// normalized input itself, without duplicates.
func (t *AliasTable) Terms(input string) []string {
	normalized := textnorm.Normalize(input)
	if normalized == "" {
		return nil
	}

	out := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	add := func(term string) {
		key := textnorm.Fold(term)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, term)
	}

	if t != nil {
		for _, mapped := range t.terms[textnorm.Fold(normalized)] {
			add(mapped)
		}
	}
	add(normalized)
	return out
}
