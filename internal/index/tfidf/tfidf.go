// Package tfidf implements a small TF-IDF vector space over a document
// corpus: tokenisation, vocabulary selection, smoothed inverse document
// frequency weighting, l2 normalisation and cosine similarity scoring.
//
// The index is immutable once fitted. Content changes are handled by
// fitting a fresh index over the new corpus and swapping it in; there is
// no incremental update path.
package tfidf

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Options parameterises the vector space.
type Options struct {
	// MaxFeatures caps the vocabulary size. When the corpus produces
	// more terms, the most frequent ones across the corpus are kept,
	// ties broken alphabetically.
	MaxFeatures int

	// NGramMin and NGramMax bound the n-gram range. The defaults index
	// unigrams and bigrams.
	NGramMin int
	NGramMax int
}

// DefaultOptions returns the standard parameters: a 1000-term
// vocabulary over unigrams and bigrams.
func DefaultOptions() Options {
	return Options{MaxFeatures: 1000, NGramMin: 1, NGramMax: 2}
}

// sparseVec is an l2-normalised sparse vector keyed by vocabulary index.
type sparseVec map[int]float64

// Index is a fitted TF-IDF vector space.
type Index struct {
	opts  Options
	vocab map[string]int
	idf   []float64
	docs  []sparseVec
}

// Fit builds an index over the given texts. Returns nil when texts is
// empty: an empty corpus has no vector space, and the caller treats a
// nil index as "not built".
func Fit(texts []string, opts Options) *Index {
	if len(texts) == 0 {
		return nil
	}
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultOptions().MaxFeatures
	}
	if opts.NGramMin <= 0 {
		opts.NGramMin = 1
	}
	if opts.NGramMax < opts.NGramMin {
		opts.NGramMax = opts.NGramMin
	}

	ix := &Index{opts: opts}

	// Term counts per document, plus corpus-wide totals for vocabulary
	// selection and document frequencies for idf.
	termCounts := make([]map[string]int, len(texts))
	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, text := range texts {
		counts := make(map[string]int)
		for _, term := range ngrams(tokenize(text), opts.NGramMin, opts.NGramMax) {
			counts[term]++
		}
		termCounts[i] = counts
		for term, c := range counts {
			corpusFreq[term] += c
			docFreq[term]++
		}
	}

	ix.vocab = selectVocabulary(corpusFreq, opts.MaxFeatures)

	// Smoothed idf: ln((1+n)/(1+df)) + 1.
	n := float64(len(texts))
	ix.idf = make([]float64, len(ix.vocab))
	for term, col := range ix.vocab {
		ix.idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	ix.docs = make([]sparseVec, len(texts))
	for i, counts := range termCounts {
		ix.docs[i] = ix.vectorize(counts)
	}

	return ix
}

// Len returns the number of document vectors in the index.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.docs)
}

// Similarities projects the query into the vector space and returns the
// cosine similarity against every document vector, in document order.
// A query sharing no vocabulary with the corpus scores zero everywhere.
func (ix *Index) Similarities(query string) []float64 {
	if ix == nil {
		return nil
	}

	counts := make(map[string]int)
	for _, term := range ngrams(tokenize(query), ix.opts.NGramMin, ix.opts.NGramMax) {
		counts[term]++
	}
	qv := ix.vectorize(counts)

	sims := make([]float64, len(ix.docs))
	for i, dv := range ix.docs {
		sims[i] = dot(qv, dv)
	}
	return sims
}

// vectorize converts raw term counts to an l2-normalised tf-idf vector,
// dropping terms outside the vocabulary.
func (ix *Index) vectorize(counts map[string]int) sparseVec {
	vec := make(sparseVec)
	var norm float64
	for term, c := range counts {
		col, ok := ix.vocab[term]
		if !ok {
			continue
		}
		w := float64(c) * ix.idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col, w := range vec {
			vec[col] = w / norm
		}
	}
	return vec
}

// dot multiplies two l2-normalised sparse vectors, iterating the
// smaller one.
func dot(a, b sparseVec) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}

// selectVocabulary keeps the max most frequent terms, ties broken
// alphabetically so fitting is deterministic.
func selectVocabulary(corpusFreq map[string]int, max int) map[string]int {
	terms := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		terms = append(terms, term)
	}

	if len(terms) > max {
		sort.Slice(terms, func(i, j int) bool {
			if corpusFreq[terms[i]] != corpusFreq[terms[j]] {
				return corpusFreq[terms[i]] > corpusFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:max]
	}

	// Column order is alphabetical over the selected terms.
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for col, term := range terms {
		vocab[term] = col
	}
	return vocab
}

// tokenize lowercases the text and splits it into maximal runs of
// letters, digits and underscores, keeping runs of at least two runes.
// Treating any Unicode letter as a word character keeps CJK text
// searchable without language-specific analysis.
func tokenize(text string) []string {
	var tokens []string
	var current []rune
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current = append(current, r)
			continue
		}
		if len(current) >= 2 {
			tokens = append(tokens, string(current))
		}
		current = current[:0]
	}
	if len(current) >= 2 {
		tokens = append(tokens, string(current))
	}
	return tokens
}

// ngrams expands a token stream into space-joined n-grams for every
// length in [min, max].
func ngrams(tokens []string, min, max int) []string {
	if min == 1 && max == 1 {
		return tokens
	}
	var out []string
	for n := min; n <= max; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
