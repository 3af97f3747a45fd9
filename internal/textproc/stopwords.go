package textproc

import "strings"

// StopwordSet is a lowercase stopword lookup set.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from a word list, lowercasing each entry.
func NewStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Filter drops tokens present in the stopword set, preserving the
// relative order of kept tokens.
func Filter(tokens []string, stopwords StopwordSet) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stopwords.Contains(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}

// spanishStopwords covers the most frequent Spanish function words. The
// analytics config can replace it wholesale.
var spanishStopwords = []string{
	"de", "la", "que", "el", "en", "y", "a", "los", "del", "se",
	"las", "por", "un", "para", "con", "no", "una", "su", "al", "lo",
	"como", "más", "pero", "sus", "le", "ya", "o", "este", "sí", "porque",
	"esta", "entre", "cuando", "muy", "sin", "sobre", "también", "me",
	"hasta", "hay", "donde", "es", "son",
}

// DefaultSpanish returns the built-in Spanish stopword set.
func DefaultSpanish() StopwordSet {
	return NewStopwordSet(spanishStopwords)
}
