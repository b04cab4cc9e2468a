// Package classifier maps a normalized utterance to one configured intent tag.
//
// Two implementations exist: a trained TF-IDF model built from the intent
// patterns, and an ordered keyword-rule fallback used when the intent resource
// is missing or malformed. The variant is selected once at construction; the
// per-call path never re-checks model availability.
package classifier

import "sync"

// Result is one classification outcome.
type Result struct {
	Tag        string
	Confidence float64
	// Degraded is true when the keyword fallback produced the result.
	Degraded bool
}

// Classifier scores an utterance against the configured intents. The utterance
// is expected to be lower-cased and trimmed by the caller; implementations must
// not fail on empty input.
type Classifier interface {
	Classify(utterance string) Result
}

// Lazy defers classifier construction to the first Classify call. Concurrent
// first calls build exactly once; readers never block after initialization.
type Lazy struct {
	once  sync.Once
	build func() Classifier
	c     Classifier
}

// NewLazy wraps a build function. build must never return nil.
func NewLazy(build func() Classifier) *Lazy {
	return &Lazy{build: build}
}

func (l *Lazy) Classify(utterance string) Result {
	l.once.Do(func() {
		l.c = l.build()
	})
	return l.c.Classify(utterance)
}
