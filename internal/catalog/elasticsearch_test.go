// internal/catalog/elasticsearch_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionstore-chatbot/internal/chatbot/filter"
	"fashionstore-chatbot/internal/models"
)

func TestBuildSearchBody_AppendsAvailabilityFilter(t *testing.T) {
	body := BuildSearchBody(filter.Equals{Field: filter.FieldGender, Value: "W"}, 3)

	assert.Equal(t, 3, body["size"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": "asc"}}, body["sort"])

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	require.Len(t, filters, 2)
	assert.Equal(t,
		map[string]interface{}{"term": map[string]interface{}{"available": true}},
		filters[0])
}

func TestESQuery_NodeShapes(t *testing.T) {
	tests := []struct {
		name string
		expr filter.Expr
		want map[string]interface{}
	}{
		{
			name: "contains becomes case-insensitive wildcard on the keyword subfield",
			expr: filter.Contains{Field: filter.FieldName, Value: "Dress"},
			want: map[string]interface{}{
				"wildcard": map[string]interface{}{
					"name.keyword": map[string]interface{}{
						"value":            "*dress*",
						"case_insensitive": true,
					},
				},
			},
		},
		{
			name: "multi-word contains keeps substring semantics",
			expr: filter.Contains{Field: filter.FieldDescription, Value: "anything warm"},
			want: map[string]interface{}{
				"wildcard": map[string]interface{}{
					"description.keyword": map[string]interface{}{
						"value":            "*anything warm*",
						"case_insensitive": true,
					},
				},
			},
		},
		{
			name: "equals on text field targets the keyword subfield",
			expr: filter.Equals{Field: filter.FieldColor, Value: "red"},
			want: map[string]interface{}{
				"term": map[string]interface{}{
					"color.keyword": map[string]interface{}{
						"value":            "red",
						"case_insensitive": true,
					},
				},
			},
		},
		{
			name: "equals on gender stays on the raw field",
			expr: filter.Equals{Field: filter.FieldGender, Value: "W"},
			want: map[string]interface{}{
				"term": map[string]interface{}{
					"gender": map[string]interface{}{
						"value":            "W",
						"case_insensitive": true,
					},
				},
			},
		},
		{
			name: "between becomes a range",
			expr: filter.Between{Field: filter.FieldPrice, Min: 100, Max: 500},
			want: map[string]interface{}{
				"range": map[string]interface{}{
					"price": map[string]interface{}{"gte": 100.0, "lte": 500.0},
				},
			},
		},
		{
			name: "not becomes must_not",
			expr: filter.Not{Expr: filter.Equals{Field: filter.FieldGender, Value: "K"}},
			want: map[string]interface{}{
				"bool": map[string]interface{}{
					"must_not": []interface{}{
						map[string]interface{}{
							"term": map[string]interface{}{
								"gender": map[string]interface{}{
									"value":            "K",
									"case_insensitive": true,
								},
							},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, esQuery(tt.expr))
		})
	}
}

func TestESQuery_DisjunctionRequiresOneMatch(t *testing.T) {
	expr := filter.Or{Exprs: []filter.Expr{
		filter.Contains{Field: filter.FieldName, Value: "bag"},
		filter.Contains{Field: filter.FieldCategory, Value: "bag"},
	}}

	q := esQuery(expr)
	boolQuery := q["bool"].(map[string]interface{})
	assert.Equal(t, 1, boolQuery["minimum_should_match"])
	assert.Len(t, boolQuery["should"], 2)
}

func TestESQuery_CompiledBagsPredicate(t *testing.T) {
	expr := filter.Compile(models.ExtractedFacets{CategoryGroup: models.GroupBags}, "bags")
	require.NotNil(t, expr)

	q := esQuery(expr)
	boolQuery, ok := q["bool"].(map[string]interface{})
	require.True(t, ok)
	must, ok := boolQuery["must"].([]interface{})
	require.True(t, ok)
	// Conjunction of the positive reach, gender scope and every exclusion.
	assert.Greater(t, len(must), 2)
}
