package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fashionstore-chatbot/internal/chatbot/filter"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/common/metrics"
	"fashionstore-chatbot/internal/models"
)

// CachedStore is a read-through Redis cache over another Store. Cache keys are
// derived from the predicate's canonical rendering, so identical trees share
// an entry. Any Redis failure degrades to a direct store hit.
type CachedStore struct {
	inner  Store
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedStore decorates inner with a Redis cache.
func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog.cache"}),
	}
}

func (s *CachedStore) Search(ctx context.Context, expr filter.Expr, limit int) ([]models.Product, error) {
	if expr == nil {
		return nil, nil
	}

	key := searchKey(expr, limit)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var products []models.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			metrics.CatalogCacheHits.WithLabelValues("hit").Inc()
			return products, nil
		}
		// corrupt entry, fall through to the store
		s.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		metrics.CatalogCacheHits.WithLabelValues("error").Inc()
		s.logger.WithError(err).Warn("cache lookup failed", map[string]interface{}{"key": key})
	} else {
		metrics.CatalogCacheHits.WithLabelValues("miss").Inc()
	}

	products, err := s.inner.Search(ctx, expr, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.WithError(err).Warn("cache store failed", map[string]interface{}{"key": key})
		}
	}

	return products, nil
}

func (s *CachedStore) Get(ctx context.Context, id int64) (models.Product, error) {
	return s.inner.Get(ctx, id)
}

func searchKey(expr filter.Expr, limit int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", expr.String(), limit)))
	return fmt.Sprintf("catalog:search:v1:%x", sum[:16])
}
