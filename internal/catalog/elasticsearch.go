package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"fashionstore-chatbot/internal/chatbot/filter"
	apperrors "fashionstore-chatbot/internal/common/errors"
	"fashionstore-chatbot/internal/common/logger"
	"fashionstore-chatbot/internal/common/metrics"
	"fashionstore-chatbot/internal/models"
)

// ElasticsearchStore interprets predicate trees as bool queries against a
// product index.
type ElasticsearchStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

// NewElasticsearchStore wraps an Elasticsearch client for the given index.
func NewElasticsearchStore(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchStore {
	return &ElasticsearchStore{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog.elasticsearch"}),
	}
}

func (s *ElasticsearchStore) Search(ctx context.Context, expr filter.Expr, limit int) ([]models.Product, error) {
	if expr == nil {
		return nil, nil
	}

	body, err := json.Marshal(BuildSearchBody(expr, limit))
	if err != nil {
		return nil, apperrors.NewCatalogQueryFailedError("elasticsearch", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}

	start := time.Now()
	res, err := req.Do(ctx, s.client)
	metrics.CatalogQueryDuration.WithLabelValues("elasticsearch").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogQueryFailures.WithLabelValues("elasticsearch").Inc()
		s.logger.WithError(err).Error("catalog search failed", map[string]interface{}{
			"predicate": expr.String(),
		})
		return nil, apperrors.NewCatalogQueryFailedError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.CatalogQueryFailures.WithLabelValues("elasticsearch").Inc()
		return nil, apperrors.NewCatalogQueryFailedError("elasticsearch",
			fmt.Errorf("search failed: %s", res.String()))
	}

	return decodeHits(res)
}

func (s *ElasticsearchStore) Get(ctx context.Context, id int64) (models.Product, error) {
	req := esapi.GetRequest{
		Index:      s.index,
		DocumentID: fmt.Sprintf("%d", id),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return models.Product{}, apperrors.NewCatalogQueryFailedError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return models.Product{}, apperrors.NewProductNotFoundError(id)
	}
	if res.IsError() {
		return models.Product{}, apperrors.NewCatalogQueryFailedError("elasticsearch",
			fmt.Errorf("get failed: %s", res.String()))
	}

	var doc struct {
		Source models.Product `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return models.Product{}, apperrors.NewCatalogQueryFailedError("elasticsearch", err)
	}
	doc.Source.ID = id
	return doc.Source, nil
}

// BuildSearchBody renders the full search request body for a predicate. The
// available=true term is mandatory and ANDed here, mirroring the SQL
// interpreter. Exported so the query shape is testable without a live cluster.
func BuildSearchBody(expr filter.Expr, limit int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"available": true}},
					esQuery(expr),
				},
			},
		},
		"size": limit,
		"sort": []interface{}{map[string]interface{}{"id": "asc"}},
	}
}

func esQuery(e filter.Expr) map[string]interface{} {
	switch v := e.(type) {
	case filter.And:
		return map[string]interface{}{
			"bool": map[string]interface{}{"must": esQueryList(v.Exprs)},
		}
	case filter.Or:
		return map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               esQueryList(v.Exprs),
				"minimum_should_match": 1,
			},
		}
	case filter.Not:
		return map[string]interface{}{
			"bool": map[string]interface{}{"must_not": []interface{}{esQuery(v.Expr)}},
		}
	case filter.Contains:
		// Wildcards against an analyzed text field are matched per term, so a
		// multi-word value could never hit. The keyword subfield keeps true
		// substring semantics, consistent with Equals below.
		field := string(v.Field)
		if isTextField(v.Field) {
			field += ".keyword"
		}
		return map[string]interface{}{
			"wildcard": map[string]interface{}{
				field: map[string]interface{}{
					"value":            "*" + strings.ToLower(v.Value) + "*",
					"case_insensitive": true,
				},
			},
		}
	case filter.Equals:
		field := string(v.Field)
		if isTextField(v.Field) {
			field += ".keyword"
		}
		return map[string]interface{}{
			"term": map[string]interface{}{
				field: map[string]interface{}{
					"value":            v.Value,
					"case_insensitive": true,
				},
			},
		}
	case filter.Between:
		return map[string]interface{}{
			"range": map[string]interface{}{
				string(v.Field): map[string]interface{}{"gte": v.Min, "lte": v.Max},
			},
		}
	}
	return map[string]interface{}{"match_none": map[string]interface{}{}}
}

func esQueryList(exprs []filter.Expr) []interface{} {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		out[i] = esQuery(e)
	}
	return out
}

// isTextField reports whether the index maps the field as analyzed text,
// requiring the .keyword subfield for exact matches.
func isTextField(f filter.Field) bool {
	switch f {
	case filter.FieldName, filter.FieldDescription, filter.FieldCategory,
		filter.FieldSubcategory, filter.FieldColor, filter.FieldSize:
		return true
	}
	return false
}

func decodeHits(res *esapi.Response) ([]models.Product, error) {
	var r struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewCatalogQueryFailedError("elasticsearch", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		products = append(products, h.Source)
	}
	return products, nil
}
