// internal/catalog/cache_test.go
package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionstore-chatbot/internal/chatbot/filter"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// countingStore records Search invocations and serves fixed products.
type countingStore struct {
	searches int
	products []models.Product
	err      error
}

func (s *countingStore) Search(ctx context.Context, expr filter.Expr, limit int) ([]models.Product, error) {
	s.searches++
	return s.products, s.err
}

func (s *countingStore) Get(ctx context.Context, id int64) (models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, errors.New("not found")
}

func createCachedStore(t *testing.T, inner Store) (*CachedStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t)), mr
}

// ==========================
// Cache Tests
// ==========================

func TestCachedStore_ReadThrough(t *testing.T) {
	inner := &countingStore{products: []models.Product{
		{ID: 1, Name: "Red Dress", Price: 1499, Gender: models.GenderWomen, Available: true},
	}}
	store, _ := createCachedStore(t, inner)

	expr := filter.Equals{Field: filter.FieldColor, Value: "red"}

	first, err := store.Search(context.Background(), expr, 3)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, inner.searches)

	// Identical predicate and limit hit the cached entry, not the store.
	second, err := store.Search(context.Background(), expr, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.searches)

	// A different limit is a different key.
	_, err = store.Search(context.Background(), expr, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.searches)
}

func TestCachedStore_EquivalentTreesShareEntry(t *testing.T) {
	inner := &countingStore{}
	store, _ := createCachedStore(t, inner)

	build := func() filter.Expr {
		return filter.Compile(models.ExtractedFacets{
			CategoryGroup: models.GroupBags,
			Color:         "red",
		}, "looking for a red bag")
	}

	_, err := store.Search(context.Background(), build(), 3)
	require.NoError(t, err)
	_, err = store.Search(context.Background(), build(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.searches)
}

func TestCachedStore_NilPredicate(t *testing.T) {
	inner := &countingStore{}
	store, _ := createCachedStore(t, inner)

	products, err := store.Search(context.Background(), nil, 3)
	assert.NoError(t, err)
	assert.Nil(t, products)
	assert.Zero(t, inner.searches)
}

func TestCachedStore_InnerErrorNotCached(t *testing.T) {
	inner := &countingStore{err: errors.New("backend down")}
	store, _ := createCachedStore(t, inner)

	expr := filter.Equals{Field: filter.FieldColor, Value: "red"}

	_, err := store.Search(context.Background(), expr, 3)
	assert.Error(t, err)
	_, err = store.Search(context.Background(), expr, 3)
	assert.Error(t, err)
	assert.Equal(t, 2, inner.searches)
}

func TestCachedStore_RedisFailureDegradesToStore(t *testing.T) {
	inner := &countingStore{products: []models.Product{{ID: 2, Name: "Tote Bag"}}}

	rdb, mock := redismock.NewClientMock()
	store := NewCachedStore(inner, rdb, time.Minute, logger.NewTestLogger(t))

	expr := filter.Equals{Field: filter.FieldColor, Value: "blue"}
	key := searchKey(expr, 3)
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(key, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	products, err := store.Search(context.Background(), expr, 3)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tote Bag", products[0].Name)
	assert.Equal(t, 1, inner.searches)
}

func TestCachedStore_CorruptEntryFallsThrough(t *testing.T) {
	inner := &countingStore{products: []models.Product{{ID: 3, Name: "Backpack"}}}
	store, mr := createCachedStore(t, inner)

	expr := filter.Equals{Field: filter.FieldColor, Value: "green"}
	require.NoError(t, mr.Set(searchKey(expr, 3), "{not json"))

	products, err := store.Search(context.Background(), expr, 3)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, inner.searches)
}

func TestCachedStore_GetBypassesCache(t *testing.T) {
	inner := &countingStore{products: []models.Product{{ID: 4, Name: "Satchel"}}}
	store, _ := createCachedStore(t, inner)

	p, err := store.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Satchel", p.Name)
}
