// Package intents loads and validates the chatbot intent configuration
// resource. The table is built once at startup and never mutated.
package intents

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"fashionstore-chatbot/internal/models"
)

// schemaJSON constrains the intents resource: every record needs a unique tag,
// at least one pattern and at least one response.
const schemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "tag": {"type": "string", "minLength": 1},
      "patterns": {"type": "array", "items": {"type": "string"}, "minItems": 1},
      "responses": {"type": "array", "items": {"type": "string"}, "minItems": 1}
    },
    "required": ["tag", "patterns", "responses"],
    "additionalProperties": false
  }
}`

// Table is an immutable, tag-indexed view of the configured intents.
type Table struct {
	intents []models.Intent
	byTag   map[string]models.Intent
}

// Load reads and validates the intents JSON file at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intents file: %w", err)
	}
	return Parse(data)
}

// Parse validates raw intents JSON against the schema and builds the table.
func Parse(data []byte) (*Table, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate intents: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("intents schema violation: %s", result.Errors()[0].String())
	}

	var list []models.Intent
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode intents: %w", err)
	}

	byTag := make(map[string]models.Intent, len(list))
	for _, in := range list {
		if _, dup := byTag[in.Tag]; dup {
			return nil, fmt.Errorf("duplicate intent tag %q", in.Tag)
		}
		byTag[in.Tag] = in
	}

	return &Table{intents: list, byTag: byTag}, nil
}

// Get returns the intent configured for tag.
func (t *Table) Get(tag string) (models.Intent, bool) {
	if t == nil {
		return models.Intent{}, false
	}
	in, ok := t.byTag[tag]
	return in, ok
}

// All returns the configured intents in file order.
func (t *Table) All() []models.Intent {
	if t == nil {
		return nil
	}
	return t.intents
}

// Len returns the number of configured intents.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.intents)
}
