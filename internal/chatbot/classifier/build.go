package classifier

import (
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/models"
)

// Build selects the classifier variant once: the trained model when the intent
// table yields one, the keyword fallback otherwise. It never fails; a missing
// or malformed intent table degrades, it does not crash startup.
func Build(intents []models.Intent, threshold float64, log logger.Logger) Classifier {
	if len(intents) == 0 {
		log.Warn("no intents configured, using keyword fallback classifier", nil)
		return NewKeyword()
	}

	trained, err := NewTrained(intents, threshold)
	if err != nil {
		log.WithError(err).Warn("classifier training failed, using keyword fallback classifier", nil)
		return NewKeyword()
	}

	log.Info("trained classifier ready", map[string]interface{}{
		"classes":   len(trained.Classes()),
		"threshold": threshold,
	})
	return trained
}
