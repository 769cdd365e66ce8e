package detect

import (
	"strings"

	"landscape-quote/internal/catalog"
)

// phraseIndex recognizes multi-word service names and synonyms in a token
// stream using greedy longest-match. When a category hint is supplied and
// several candidates start at the same position, entries in the hinted
// category win over longer matches outside it.
type phraseIndex struct {
	dict   map[string]dictEntry
	maxLen int
}

type dictEntry struct {
	entry catalog.Entry
	exact bool // alias is the canonical name itself
}

type phraseMatch struct {
	name       string // matched surface form, normalized
	entry      catalog.Entry
	exact      bool
	start, end int
}

func newPhraseIndex(cat *catalog.Catalog) *phraseIndex {
	idx := &phraseIndex{dict: make(map[string]dictEntry)}
	for alias, canonical := range cat.Aliases() {
		entry, ok := cat.Get(canonical)
		if !ok {
			continue
		}
		idx.dict[alias] = dictEntry{entry: entry, exact: alias == canonical}
		if l := len(strings.Fields(alias)); l > idx.maxLen {
			idx.maxLen = l
		}
	}
	return idx
}

// match scans the token stream, skipping consumed tokens, and returns the
// recognized service phrases in order. Matched tokens are marked consumed.
func (p *phraseIndex) match(tokens []token, consumed []bool, hint string) []phraseMatch {
	var matches []phraseMatch

	for i := 0; i < len(tokens); i++ {
		if consumed[i] || tokens[i].Norm == "" {
			continue
		}

		best, ok := p.candidateAt(tokens, consumed, i, hint)
		if !ok {
			continue
		}
		matches = append(matches, best)
		markConsumed(consumed, best.start, best.end)
		i = best.end - 1
	}
	return matches
}

// candidateAt collects every alias match starting at position i and picks
// the winner: hinted-category matches first, then the longest.
func (p *phraseIndex) candidateAt(tokens []token, consumed []bool, i int, hint string) (phraseMatch, bool) {
	var candidates []phraseMatch

	maxPhrase := p.maxLen
	if remaining := len(tokens) - i; maxPhrase > remaining {
		maxPhrase = remaining
	}
	for n := maxPhrase; n >= 1; n-- {
		if crossesConsumed(consumed, i, i+n) {
			continue
		}
		parts := make([]string, 0, n)
		for _, t := range tokens[i : i+n] {
			parts = append(parts, t.Norm)
		}
		phrase := strings.Join(parts, " ")
		if de, ok := p.dict[phrase]; ok {
			candidates = append(candidates, phraseMatch{
				name:  phrase,
				entry: de.entry,
				exact: de.exact,
				start: i,
				end:   i + n,
			})
		}
	}
	if len(candidates) == 0 {
		return phraseMatch{}, false
	}

	if hint != "" {
		for _, c := range candidates {
			if strings.EqualFold(c.entry.Category, hint) {
				return c, true
			}
		}
	}
	// Candidates are collected longest-first.
	return candidates[0], true
}

func crossesConsumed(consumed []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if consumed[i] {
			return true
		}
	}
	return false
}
