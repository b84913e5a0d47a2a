package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/xaenox/support-bot/internal/models"
)

// Matcher scores a user query against a set of FAQ entries and returns the
// best answer with a confidence in [0,1]. ok is false when the set holds no
// candidate at all.
type Matcher interface {
	Retrieve(query string) (answer string, score float64, ok bool)
}

// LexicalConfidence is the fixed score reported by the lexical fallback.
// It sits below the resolver's trust threshold on purpose: a keyword hit is
// a hint, not a confident match.
const LexicalConfidence = 0.5

// LexicalMatcher is the fallback strategy used when no term-weight index
// could be built. It checks whether any question token longer than three
// characters appears, case-insensitively, inside the query. First entry in
// load order wins.
type LexicalMatcher struct {
	entries []models.FAQEntry
}

// NewLexicalMatcher builds a lexical matcher over the given entries.
func NewLexicalMatcher(entries []models.FAQEntry) *LexicalMatcher {
	return &LexicalMatcher{entries: entries}
}

// Retrieve implements Matcher.
func (m *LexicalMatcher) Retrieve(query string) (string, float64, bool) {
	q := strings.ToLower(query)
	for _, e := range m.entries {
		for _, tok := range strings.Fields(e.Question) {
			if utf8.RuneCountInString(tok) <= 3 {
				continue
			}
			if strings.Contains(q, strings.ToLower(tok)) {
				return e.Answer, LexicalConfidence, true
			}
		}
	}
	return "", 0, false
}

// IndexedMatcher scores queries by cosine similarity over TF-IDF vectors of
// the FAQ questions. On exact ties the lowest index wins, so earlier-loaded
// entries take priority.
type IndexedMatcher struct {
	entries []models.FAQEntry
	vec     *vectorizer
	rows    []sparseVec
}

// NewIndexedMatcher fits a TF-IDF vectorizer over the entry questions and
// indexes them. ok is false when no usable vocabulary could be extracted
// (no entries, or questions with no tokens); callers should then fall back
// to the lexical strategy.
func NewIndexedMatcher(entries []models.FAQEntry) (*IndexedMatcher, bool) {
	if len(entries) == 0 {
		return nil, false
	}
	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	vec := fitVectorizer(questions)
	if vec == nil {
		return nil, false
	}
	rows := make([]sparseVec, len(questions))
	for i, q := range questions {
		rows[i] = vec.transform(q)
	}
	return &IndexedMatcher{entries: entries, vec: vec, rows: rows}, true
}

// Retrieve implements Matcher. It always returns the argmax entry, even at
// score zero, mirroring the contract that an indexed set with entries never
// reports "no candidate".
func (m *IndexedMatcher) Retrieve(query string) (string, float64, bool) {
	qv := m.vec.transform(query)
	best := 0
	bestScore := qv.dot(m.rows[0])
	for i := 1; i < len(m.rows); i++ {
		if s := qv.dot(m.rows[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return m.entries[best].Answer, bestScore, true
}

// Build selects the strategy for a set of entries: indexed when a TF-IDF
// vocabulary exists, lexical otherwise. useIndex=false forces the lexical
// path, mainly for configurations that want deterministic keyword matching.
func Build(entries []models.FAQEntry, useIndex bool) Matcher {
	if useIndex {
		if m, ok := NewIndexedMatcher(entries); ok {
			return m
		}
	}
	return NewLexicalMatcher(entries)
}
