package classifier

import (
	"strings"

	"fashionstore-chatbot/internal/models"
)

// keywordRule pairs an intent tag with the substrings that select it.
type keywordRule struct {
	tag      string
	keywords []string
}

// keywordRules is the ordered degraded-mode rule ladder. First matching rule
// wins, so order is part of the behavior.
var keywordRules = []keywordRule{
	{"greeting", []string{"hi", "hello", "hey"}},
	{"goodbye", []string{"bye", "goodbye", "see you"}},
	{"product_search_query", []string{"show me", "find product", "looking for", "products"}},
	{"thanks", []string{"thank", "thanks"}},
	{"contact_support_query", []string{"contact", "support", "help"}},
	{"about_bot", []string{"about you", "who are you"}},
	{"return_policy", []string{"return", "exchange"}},
	{"shipping_info", []string{"delivery", "shipping"}},
	{"payment_options", []string{"payment", "pay"}},
}

// KeywordClassifier is the degraded-mode classifier used when the trained
// model is unavailable: plain substring containment against a fixed keyword
// set per intent.
type KeywordClassifier struct{}

// NewKeyword returns the keyword fallback classifier.
func NewKeyword() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(utterance string) Result {
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(utterance, kw) {
				return Result{Tag: rule.tag, Confidence: 1, Degraded: true}
			}
		}
	}
	return Result{Tag: models.FallbackTag, Confidence: 0, Degraded: true}
}
