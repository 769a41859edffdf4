package artifacts

import (
	"math"
	"strings"
	"unicode"
)

// Vectorizer is a fitted TF-IDF vectorizer exported from the training
// pipeline. It only transforms text; fitting happens offline.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// Transform projects free text into the term vector space: raw term counts
// weighted by IDF, then L2-normalized. Terms outside the vocabulary are
// ignored. Matches the behaviour of the vectorizer the matrix was built with,
// which is what keeps query and program vectors comparable.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, len(v.IDF))

	for _, token := range tokenize(text) {
		idx, ok := v.Vocabulary[token]
		if !ok || idx < 0 || idx >= len(vec) {
			continue
		}
		vec[idx] += v.IDF[idx]
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

// tokenize lowercases and splits on non-alphanumeric runes, keeping tokens of
// at least two characters. Single-character tokens carry no signal in the
// trained vocabulary.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// CosineSimilarity between two term vectors. Returns 0 when either vector has
// zero norm.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dotProduct, normA, normB float64
	for i := 0; i < n; i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
