// Package chatbot orchestrates one dialogue turn: classify the utterance,
// extract facets and query the catalog for search intents, then compose the
// reply. Every internal failure degrades to a valid reply; a turn never
// returns empty text or an error to the transport.
package chatbot

import (
	"context"
	"strings"

	"fashionstore-chatbot/internal/catalog"
	"fashionstore-chatbot/internal/chatbot/classifier"
	"fashionstore-chatbot/internal/chatbot/composer"
	"fashionstore-chatbot/internal/chatbot/extractor"
	"fashionstore-chatbot/internal/chatbot/filter"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/common/metrics"
	"fashionstore-chatbot/internal/models"
)

// Service handles one chat message per call. All fields are read-only after
// construction; concurrent calls share no per-turn state.
type Service struct {
	classifier classifier.Classifier
	composer   *composer.Composer
	store      catalog.Store
	searchTag  string
	maxResults int
	log        logger.Logger
}

// NewService wires the dialogue pipeline.
func NewService(cls classifier.Classifier, comp *composer.Composer, store catalog.Store, searchTag string, maxResults int, log logger.Logger) *Service {
	return &Service{
		classifier: cls,
		composer:   comp,
		store:      store,
		searchTag:  searchTag,
		maxResults: maxResults,
		log:        log,
	}
}

// HandleMessage processes one raw utterance and returns the reply text.
func (s *Service) HandleMessage(ctx context.Context, raw string) string {
	utterance := strings.ToLower(strings.TrimSpace(raw))

	result := s.classifier.Classify(utterance)
	metrics.MessagesProcessed.WithLabelValues(result.Tag).Inc()
	if result.Degraded {
		metrics.ClassifierDegraded.Inc()
	}

	s.log.Debug("message classified", map[string]interface{}{
		"intent":     result.Tag,
		"confidence": result.Confidence,
		"degraded":   result.Degraded,
	})

	var (
		facets   models.ExtractedFacets
		products []models.Product
	)
	if result.Tag == s.searchTag {
		facets = extractor.Extract(utterance)
		products = s.search(ctx, facets, utterance)
	}

	return s.composer.Compose(result.Tag, facets, products)
}

// search compiles the facets and queries the catalog. Query failures are
// logged and yield no matches; the composer turns that into a no-match reply.
func (s *Service) search(ctx context.Context, facets models.ExtractedFacets, utterance string) []models.Product {
	expr := filter.Compile(facets, utterance)
	if expr == nil {
		return nil
	}

	products, err := s.store.Search(ctx, expr, s.maxResults)
	if err != nil {
		s.log.WithError(err).Error("catalog search failed", map[string]interface{}{
			"predicate": expr.String(),
		})
		return nil
	}
	return products
}
