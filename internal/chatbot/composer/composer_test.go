// internal/chatbot/composer/composer_test.go
package composer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionstore-chatbot/internal/chatbot/intents"
	"fashionstore-chatbot/internal/chatbot/links"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/models"
)

const searchTag = "product_search_query"

// ==========================
// Test Helper Functions
// ==========================

func createTestTable(t *testing.T) *intents.Table {
	table, err := intents.Parse([]byte(`[
		{
			"tag": "greeting",
			"patterns": ["hi"],
			"responses": ["Hello!", "Hi there! How can I help you find fashion items today?"]
		},
		{
			"tag": "contact_support_query",
			"patterns": ["contact support"],
			"responses": ["You can reach our support team via our <a href='{link:contactus}' target='_parent'>Contact Us page</a> or by email."]
		},
		{
			"tag": "broken_link",
			"patterns": ["broken"],
			"responses": ["Visit {link:warehouse} for details."]
		},
		{
			"tag": "product_search_query",
			"patterns": ["show me products"],
			"responses": ["What are you looking for?"]
		}
	]`))
	require.NoError(t, err)
	return table
}

func createComposer(t *testing.T, table *intents.Table) *Composer {
	return New(table, links.NewTableResolver(""), searchTag, logger.NewTestLogger(t),
		WithRand(rand.New(rand.NewSource(1))))
}

// ==========================
// Search Reply Tests
// ==========================

func TestCompose_SearchWithMatches(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose(searchTag, models.ExtractedFacets{Color: "red"}, []models.Product{
		{ID: 1, Name: "Red Dress", Price: 1499},
		{ID: 2, Name: "Red Scarf", Price: 399.5},
	})

	assert.Contains(t, reply, "Here are a few items we found for you:<br>")
	assert.Contains(t, reply, "<a href='/productdetail/1/' target='_parent'>Red Dress</a> (&#8377;1499.00)<br>")
	assert.Contains(t, reply, "<a href='/productdetail/2/' target='_parent'>Red Scarf</a> (&#8377;399.50)<br>")
	assert.Contains(t, reply, "You can find more on our <a href='/products/' target='_parent'>Products page</a>.")
}

func TestCompose_SearchEscapesProductNames(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose(searchTag, models.ExtractedFacets{}, []models.Product{
		{ID: 3, Name: "<script>Bag</script>", Price: 100},
	})

	assert.Contains(t, reply, "&lt;script&gt;Bag&lt;/script&gt;")
	assert.NotContains(t, reply, "<script>")
}

func TestCompose_SearchNoMatchesWithFacets(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose(searchTag, models.ExtractedFacets{
		CategoryGroup: models.GroupWomenClothing,
		GarmentType:   "dress",
		Color:         "red",
	}, nil)

	assert.Contains(t, reply, "Sorry, I couldn't find any women dress red at the moment.")
	assert.Contains(t, reply, "<a href='/products/' target='_parent'>Products page</a>")
}

func TestCompose_SearchNoMatchesNoFacets_UsesIntentResponses(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose(searchTag, models.ExtractedFacets{}, nil)
	assert.Equal(t, "What are you looking for?", reply)
}

func TestCompose_SearchNoMatchesNoFacets_UnconfiguredIntentClarifies(t *testing.T) {
	table, err := intents.Parse([]byte(`[
		{"tag": "greeting", "patterns": ["hi"], "responses": ["Hello!"]}
	]`))
	require.NoError(t, err)
	c := createComposer(t, table)

	reply := c.Compose(searchTag, models.ExtractedFacets{}, nil)
	assert.Contains(t, reply, "I couldn't find any products matching your request.")
	assert.Contains(t, reply, "'Show me dresses' or 'Do you have bags?'")
}

func TestCompose_SearchNoMatchesNoFacets_NilTableClarifies(t *testing.T) {
	c := createComposer(t, nil)

	reply := c.Compose(searchTag, models.ExtractedFacets{}, nil)
	assert.Contains(t, reply, "I couldn't find any products matching your request.")
}

// ==========================
// Template Reply Tests
// ==========================

func TestCompose_TemplatePickIsSeeded(t *testing.T) {
	table := createTestTable(t)
	a := createComposer(t, table)
	b := createComposer(t, table)

	greeting, _ := table.Get("greeting")
	for i := 0; i < 10; i++ {
		reply := a.Compose("greeting", models.ExtractedFacets{}, nil)
		assert.Contains(t, greeting.Responses, reply)
		assert.Equal(t, reply, b.Compose("greeting", models.ExtractedFacets{}, nil))
	}
}

func TestCompose_TemplateLinkSubstitution(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose("contact_support_query", models.ExtractedFacets{}, nil)
	assert.Contains(t, reply, "<a href='/contactus/' target='_parent'>Contact Us page</a>")
	assert.NotContains(t, reply, "{link:")
}

func TestCompose_UnresolvableLinkRendersHash(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose("broken_link", models.ExtractedFacets{}, nil)
	assert.Equal(t, "Visit # for details.", reply)
}

func TestCompose_UnknownTagApologizes(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	reply := c.Compose("no_such_intent", models.ExtractedFacets{}, nil)
	assert.Equal(t, apologyReply, reply)
}

func TestCompose_NilTableApologizes(t *testing.T) {
	c := createComposer(t, nil)

	reply := c.Compose("greeting", models.ExtractedFacets{}, nil)
	assert.Equal(t, apologyReply, reply)
}

func TestCompose_NeverReturnsEmpty(t *testing.T) {
	c := createComposer(t, createTestTable(t))

	for _, tag := range []string{"greeting", "no_such_intent", searchTag, "fallback", ""} {
		assert.NotEmpty(t, c.Compose(tag, models.ExtractedFacets{}, nil), "tag %q", tag)
	}
}
