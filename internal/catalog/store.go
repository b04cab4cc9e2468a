// Package catalog executes compiled predicates against the product store.
// Two interpreters exist (PostgreSQL and Elasticsearch) plus a Redis
// read-through cache decorator; all of them append the mandatory
// available=true condition before execution.
package catalog

import (
	"context"

	"fashionstore-chatbot/internal/chatbot/filter"
	"fashionstore-chatbot/internal/models"
)

// Store is the catalog query boundary consumed by the chatbot pipeline and
// the listing API.
type Store interface {
	// Search returns up to limit available products matching expr, in the
	// catalog's natural order. A nil expr matches nothing.
	Search(ctx context.Context, expr filter.Expr, limit int) ([]models.Product, error)
	// Get returns one product by id; a miss yields a PRODUCT_NOT_FOUND error.
	Get(ctx context.Context, id int64) (models.Product, error)
}
