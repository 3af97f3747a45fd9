package textproc

import "sort"

// Entry is one row of a ranked term table.
type Entry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Table counts token occurrences while remembering the order in which
// distinct tokens were first seen, so ranking ties break
// deterministically.
type Table struct {
	counts map[string]int
	order  []string
}

// Count builds a frequency table from a token sequence.
func Count(tokens []string) *Table {
	t := &Table{counts: make(map[string]int, len(tokens))}
	for _, tok := range tokens {
		if _, seen := t.counts[tok]; !seen {
			t.order = append(t.order, tok)
		}
		t.counts[tok]++
	}
	return t
}

// Get returns the count for a token, zero if absent.
func (t *Table) Get(token string) int {
	return t.counts[token]
}

// Len returns the number of distinct tokens.
func (t *Table) Len() int {
	return len(t.counts)
}

// Counts returns the token → count mapping.
func (t *Table) Counts() map[string]int {
	return t.counts
}

// TopK returns the k highest-count entries sorted by descending count,
// ties broken by first-seen order. If k exceeds the number of distinct
// tokens, all entries are returned.
func (t *Table) TopK(k int) []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, tok := range t.order {
		entries = append(entries, Entry{Token: tok, Count: t.counts[tok]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}
