package training

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	maxVocabulary = 100
	nbAlpha       = 0.1
)

// TextClassifier is a TF-IDF + multinomial Naive Bayes model over unigrams
// and bigrams. The whole model is plain data so it serializes to JSON as a
// training artifact.
type TextClassifier struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Classes    []string       `json:"classes"`
	// LogPrior and LogLikelihood are indexed by class; likelihood rows are
	// indexed by vocabulary term.
	LogPrior      []float64   `json:"log_prior"`
	LogLikelihood [][]float64 `json:"log_likelihood"`
}

type LabeledText struct {
	Text  string
	Label string
}

// TrainTextClassifier fits the vocabulary, IDF weights, and per-class term
// weights from the labeled examples.
func TrainTextClassifier(examples []LabeledText) (*TextClassifier, error) {
	if len(examples) == 0 {
		return nil, errors.New("no training examples")
	}

	docs := make([][]string, len(examples))
	for i, ex := range examples {
		docs[i] = ngrams(ex.Text)
	}

	vocab := buildVocabulary(docs, maxVocabulary)

	// Smoothed IDF, one weight per vocabulary term.
	df := make([]int, len(vocab))
	for _, doc := range docs {
		seen := make(map[int]bool)
		for _, term := range doc {
			if idx, ok := vocab[term]; ok && !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}
	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	// Class bookkeeping in first-seen order.
	var classes []string
	classIndex := make(map[string]int)
	for _, ex := range examples {
		if _, ok := classIndex[ex.Label]; !ok {
			classIndex[ex.Label] = len(classes)
			classes = append(classes, ex.Label)
		}
	}

	clf := &TextClassifier{
		Vocabulary: vocab,
		IDF:        idf,
		Classes:    classes,
	}

	counts := make([]int, len(classes))
	termSums := make([][]float64, len(classes))
	for i := range termSums {
		termSums[i] = make([]float64, len(vocab))
	}
	for i, ex := range examples {
		c := classIndex[ex.Label]
		counts[c]++
		vec := clf.vectorize(docs[i])
		for t, w := range vec {
			termSums[c][t] += w
		}
	}

	clf.LogPrior = make([]float64, len(classes))
	clf.LogLikelihood = make([][]float64, len(classes))
	for c := range classes {
		clf.LogPrior[c] = math.Log(float64(counts[c]) / n)

		var total float64
		for _, w := range termSums[c] {
			total += w
		}
		row := make([]float64, len(vocab))
		denom := total + nbAlpha*float64(len(vocab))
		for t, w := range termSums[c] {
			row[t] = math.Log((w + nbAlpha) / denom)
		}
		clf.LogLikelihood[c] = row
	}

	return clf, nil
}

// Predict returns the most likely class for the text. Unknown terms are
// ignored; an all-unknown text falls back to the largest prior.
func (c *TextClassifier) Predict(text string) string {
	vec := c.vectorize(ngrams(text))

	best := 0
	bestScore := math.Inf(-1)
	for ci := range c.Classes {
		score := c.LogPrior[ci]
		for t, w := range vec {
			score += w * c.LogLikelihood[ci][t]
		}
		if score > bestScore {
			bestScore = score
			best = ci
		}
	}
	return c.Classes[best]
}

// vectorize maps terms to l2-normalized TF-IDF weights, keyed by
// vocabulary index.
func (c *TextClassifier) vectorize(terms []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range terms {
		if idx, ok := c.Vocabulary[term]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for idx := range vec {
		vec[idx] *= c.IDF[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// ngrams lower-cases and tokenizes text into unigrams plus bigrams.
func ngrams(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(words)*2)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}

// buildVocabulary keeps the most frequent terms, breaking frequency ties
// alphabetically so training is deterministic.
func buildVocabulary(docs [][]string, limit int) map[string]int {
	freq := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			freq[term]++
		}
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}

	// Index alphabetically over the kept terms.
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}
