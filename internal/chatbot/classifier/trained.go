package classifier

import (
	"math"
	"strings"
	"unicode"

	apperrors "fashionstore-chatbot/internal/common/errors"
	"fashionstore-chatbot/internal/models"
)

// TrainedClassifier is a linear multi-class text model: TF-IDF weighted
// bag-of-words vectors per pattern, averaged into one centroid per intent,
// scored by cosine similarity. Training is deterministic for a fixed intent
// table; all state is read-only after construction.
type TrainedClassifier struct {
	vocab     map[string]int
	idf       []float64
	centroids [][]float64
	tags      []string
	threshold float64
}

// NewTrained builds the model from the intent table's pattern/tag pairs.
// Scores at or below threshold classify as fallback.
func NewTrained(intents []models.Intent, threshold float64) (*TrainedClassifier, error) {
	type doc struct {
		class  int
		tokens []string
	}

	var (
		tags []string
		docs []doc
	)
	for _, in := range intents {
		if in.Tag == models.FallbackTag {
			// fallback is a decision outcome, not a trained class
			continue
		}
		class := len(tags)
		added := false
		for _, p := range in.Patterns {
			tokens := tokenize(p)
			if len(tokens) == 0 {
				continue
			}
			docs = append(docs, doc{class: class, tokens: tokens})
			added = true
		}
		if added {
			tags = append(tags, in.Tag)
		}
	}
	if len(tags) == 0 {
		return nil, apperrors.NewModelUnavailableError("no trainable intent patterns")
	}

	// Vocabulary and document frequencies over all patterns.
	vocab := make(map[string]int)
	df := []int{}
	for _, d := range docs {
		seen := map[int]bool{}
		for _, tok := range d.tokens {
			idx, ok := vocab[tok]
			if !ok {
				idx = len(vocab)
				vocab[tok] = idx
				df = append(df, 0)
			}
			if !seen[idx] {
				df[idx]++
				seen[idx] = true
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for i, f := range df {
		// Smoothed IDF keeps terms that appear in every pattern from zeroing out.
		idf[i] = math.Log((1+n)/(1+float64(f))) + 1
	}

	// Class centroids: mean of the L2-normalized TF-IDF pattern vectors.
	centroids := make([][]float64, len(tags))
	counts := make([]int, len(tags))
	for i := range centroids {
		centroids[i] = make([]float64, len(vocab))
	}
	for _, d := range docs {
		vec := vectorize(d.tokens, vocab, idf)
		for i, v := range vec {
			centroids[d.class][i] += v
		}
		counts[d.class]++
	}
	for class, c := range centroids {
		for i := range c {
			c[i] /= float64(counts[class])
		}
		normalize(c)
	}

	return &TrainedClassifier{
		vocab:     vocab,
		idf:       idf,
		centroids: centroids,
		tags:      tags,
		threshold: threshold,
	}, nil
}

// Classify scores the utterance against every class centroid and returns the
// argmax tag with its raw cosine score. Ties keep the first (configuration
// order) class.
func (c *TrainedClassifier) Classify(utterance string) Result {
	vec := vectorize(tokenize(utterance), c.vocab, c.idf)
	normalize(vec)

	best := -1
	bestScore := 0.0
	for class, centroid := range c.centroids {
		score := dot(vec, centroid)
		if best == -1 || score > bestScore {
			best = class
			bestScore = score
		}
	}

	if best == -1 || bestScore <= c.threshold {
		return Result{Tag: models.FallbackTag, Confidence: bestScore}
	}
	return Result{Tag: c.tags[best], Confidence: bestScore}
}

// Classes returns the trained intent tags in training order.
func (c *TrainedClassifier) Classes() []string {
	return c.tags
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func vectorize(tokens []string, vocab map[string]int, idf []float64) []float64 {
	vec := make([]float64, len(vocab))
	for _, tok := range tokens {
		if idx, ok := vocab[tok]; ok {
			vec[idx] += idf[idx]
		}
	}
	return vec
}

func normalize(vec []float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
