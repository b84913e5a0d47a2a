package matcher

import (
	"math"
	"regexp"
	"strings"
)

// Tokens are lowercased runs of two or more word characters. Single-letter
// words carry no weight for question matching.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// sparseVec is an L2-normalized term-weight vector keyed by vocabulary index.
type sparseVec map[int]float64

func (a sparseVec) dot(b sparseVec) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, w := range a {
		sum += w * b[i]
	}
	return sum
}

// vectorizer holds a fitted TF-IDF model: a vocabulary and smoothed inverse
// document frequencies (idf = ln((1+n)/(1+df)) + 1).
type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// fitVectorizer learns vocabulary and document frequencies from the corpus.
// Returns nil when the corpus yields no tokens at all.
func fitVectorizer(docs []string) *vectorizer {
	vocab := make(map[string]int)
	df := make(map[int]int)
	for _, doc := range docs {
		seen := make(map[int]bool)
		for _, tok := range tokenize(doc) {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
			}
			if !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}
	if len(vocab) == 0 {
		return nil
	}
	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for idx := range idf {
		idf[idx] = math.Log((1+n)/(1+float64(df[idx]))) + 1
	}
	return &vectorizer{vocab: vocab, idf: idf}
}

// transform maps text to an L2-normalized TF-IDF vector in the fitted
// vocabulary. Out-of-vocabulary tokens are dropped; a text with no known
// tokens yields the zero vector (orthogonal to everything).
func (v *vectorizer) transform(text string) sparseVec {
	counts := make(map[int]int)
	for _, tok := range tokenize(text) {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}
	vec := make(sparseVec, len(counts))
	var norm float64
	for idx, c := range counts {
		w := float64(c) * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}
