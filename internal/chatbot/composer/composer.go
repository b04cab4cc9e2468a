// Package composer turns a classified intent plus any catalog matches into the
// final reply text shown to the shopper. Replies are HTML fragments rendered
// inside the storefront chat widget.
package composer

import (
	"fmt"
	"html"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"fashionstore-chatbot/internal/chatbot/intents"
	"fashionstore-chatbot/internal/chatbot/links"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/common/metrics"
	"fashionstore-chatbot/internal/models"
)

// apologyReply is the terminal fallback when no intent template applies.
const apologyReply = "I'm sorry, I couldn't find a suitable response. Please try again or rephrase your question."

// clarifyReply asks the shopper to narrow an unfacetted search that matched nothing.
const clarifyReply = "I couldn't find any products matching your request. What specific product or type of product are you looking for? For example, 'Show me dresses' or 'Do you have bags?'"

// linkPlaceholder matches {link:NAME} tokens inside reply templates.
var linkPlaceholder = regexp.MustCompile(`\{link:([a-z_]+)\}`)

// Composer renders replies from intent templates and search results.
type Composer struct {
	table           *intents.Table
	resolver        links.Resolver
	searchIntentTag string
	log             logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customizes a Composer.
type Option func(*Composer)

// WithRand injects a deterministic random source for tests.
func WithRand(r *rand.Rand) Option {
	return func(c *Composer) { c.rng = r }
}

// New creates a Composer. table may be nil when the intents file failed to
// load; only the search path and the terminal apology remain usable then.
func New(table *intents.Table, resolver links.Resolver, searchIntentTag string, log logger.Logger, opts ...Option) *Composer {
	c := &Composer{
		table:           table,
		resolver:        resolver,
		searchIntentTag: searchIntentTag,
		log:             log,
		rng:             rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders the reply for one turn. For the search intent it formats the
// matched products or a no-match message; for every other tag it picks one of
// the intent's reply templates at random. It always returns non-empty text.
func (c *Composer) Compose(intentTag string, facets models.ExtractedFacets, products []models.Product) string {
	if intentTag == c.searchIntentTag {
		return c.composeSearch(facets, products)
	}
	return c.composeTemplate(intentTag)
}

func (c *Composer) composeSearch(facets models.ExtractedFacets, products []models.Product) string {
	if len(products) > 0 {
		var b strings.Builder
		b.WriteString("Here are a few items we found for you:<br>")
		for _, p := range products {
			url := c.resolve("productdetail", strconv.FormatInt(p.ID, 10))
			b.WriteString(fmt.Sprintf("- <a href='%s' target='_parent'>%s</a> (&#8377;%.2f)<br>",
				url, html.EscapeString(p.Name), p.Price))
		}
		b.WriteString(fmt.Sprintf("<br>You can find more on our <a href='%s' target='_parent'>Products page</a>.",
			c.resolve("product_list")))
		return b.String()
	}

	if terms := facets.Terms(); len(terms) > 0 {
		return fmt.Sprintf("Sorry, I couldn't find any %s at the moment. Please try a different term or browse our <a href='%s' target='_parent'>Products page</a>.",
			strings.Join(terms, " "), c.resolve("product_list"))
	}

	// No facets and no matches: the search intent's own reply templates take
	// precedence; the clarifying prompt covers an unconfigured intent.
	if in, ok := c.table.Get(c.searchIntentTag); ok && len(in.Responses) > 0 {
		c.mu.Lock()
		tmpl := in.Responses[c.rng.Intn(len(in.Responses))]
		c.mu.Unlock()
		return c.expandLinks(tmpl)
	}
	return clarifyReply
}

func (c *Composer) composeTemplate(intentTag string) string {
	if c.table == nil {
		return apologyReply
	}
	intent, ok := c.table.Get(intentTag)
	if !ok || len(intent.Responses) == 0 {
		return apologyReply
	}

	c.mu.Lock()
	tmpl := intent.Responses[c.rng.Intn(len(intent.Responses))]
	c.mu.Unlock()

	return c.expandLinks(tmpl)
}

// expandLinks substitutes {link:NAME} tokens with resolved URLs. Unresolvable
// names render as "#" so the reply stays well-formed.
func (c *Composer) expandLinks(tmpl string) string {
	return linkPlaceholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := linkPlaceholder.FindStringSubmatch(match)[1]
		url, err := c.resolver.Resolve(name)
		if err != nil {
			metrics.LinkResolutionFailures.Inc()
			c.log.Warn("unresolvable link placeholder in reply template", map[string]interface{}{
				"name": name,
			})
			return "#"
		}
		return url
	})
}

func (c *Composer) resolve(name string, args ...string) string {
	url, err := c.resolver.Resolve(name, args...)
	if err != nil {
		metrics.LinkResolutionFailures.Inc()
		c.log.Warn("link resolution failed", map[string]interface{}{
			"name": name, "error": err.Error(),
		})
		return "#"
	}
	return url
}
