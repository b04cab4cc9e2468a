// internal/chatbot/service_test.go
package chatbot

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionstore-chatbot/internal/chatbot/classifier"
	"fashionstore-chatbot/internal/chatbot/composer"
	"fashionstore-chatbot/internal/chatbot/filter"
	"fashionstore-chatbot/internal/chatbot/intents"
	"fashionstore-chatbot/internal/chatbot/links"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/models"
)

const searchTag = "product_search_query"

// ==========================
// Test Helper Functions
// ==========================

// fakeStore returns canned products and records the last predicate it saw.
type fakeStore struct {
	products []models.Product
	err      error
	lastExpr filter.Expr
}

func (s *fakeStore) Search(ctx context.Context, expr filter.Expr, limit int) ([]models.Product, error) {
	s.lastExpr = expr
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *fakeStore) Get(ctx context.Context, id int64) (models.Product, error) {
	return models.Product{}, errors.New("not implemented")
}

func createTestService(t *testing.T, store *fakeStore) *Service {
	table, err := intents.Parse([]byte(`[
		{"tag": "greeting", "patterns": ["hi", "hello", "hey there"], "responses": ["Hello!"]},
		{"tag": "goodbye", "patterns": ["bye", "goodbye", "see you"], "responses": ["Bye!"]},
		{"tag": "product_search_query", "patterns": ["show me dresses", "looking for a red bag", "do you have bags"], "responses": ["What are you looking for?"]}
	]`))
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	cls := classifier.NewLazy(func() classifier.Classifier {
		return classifier.Build(table.All(), 0.1, log)
	})
	comp := composer.New(table, links.NewTableResolver(""), searchTag, log,
		composer.WithRand(rand.New(rand.NewSource(1))))

	return NewService(cls, comp, store, searchTag, 3, log)
}

// ==========================
// Dialogue Tests
// ==========================

func TestService_HandleMessage_Greeting(t *testing.T) {
	store := &fakeStore{}
	svc := createTestService(t, store)

	reply := svc.HandleMessage(context.Background(), "Hello")
	assert.Equal(t, "Hello!", reply)
	assert.Nil(t, store.lastExpr, "non-search intents must not query the catalog")
}

func TestService_HandleMessage_SearchWithMatches(t *testing.T) {
	store := &fakeStore{products: []models.Product{
		{ID: 1, Name: "Red Dress", Price: 1499},
	}}
	svc := createTestService(t, store)

	reply := svc.HandleMessage(context.Background(), "Show me dresses")
	assert.Contains(t, reply, "Here are a few items we found for you:")
	assert.Contains(t, reply, "Red Dress")

	require.NotNil(t, store.lastExpr)
	assert.Contains(t, store.lastExpr.String(), `contains(name,"dress")`)
}

func TestService_HandleMessage_SearchNoMatches(t *testing.T) {
	store := &fakeStore{}
	svc := createTestService(t, store)

	reply := svc.HandleMessage(context.Background(), "looking for a red bag")
	assert.Contains(t, reply, "Sorry, I couldn't find any bags red at the moment.")
}

func TestService_HandleMessage_StoreFailureDegrades(t *testing.T) {
	store := &fakeStore{err: errors.New("backend down")}
	svc := createTestService(t, store)

	reply := svc.HandleMessage(context.Background(), "looking for a red bag")
	assert.NotEmpty(t, reply)
	assert.Contains(t, reply, "Sorry, I couldn't find any")
}

func TestService_HandleMessage_NormalizesInput(t *testing.T) {
	store := &fakeStore{}
	svc := createTestService(t, store)

	assert.Equal(t, "Hello!", svc.HandleMessage(context.Background(), "  HELLO  "))
}

func TestService_HandleMessage_NeverEmpty(t *testing.T) {
	store := &fakeStore{}
	svc := createTestService(t, store)

	inputs := []string{"", "   ", "hello", "show me dresses", "qwertyuiop", "日本語"}
	for _, in := range inputs {
		assert.NotEmpty(t, svc.HandleMessage(context.Background(), in), "input %q", in)
	}
}
