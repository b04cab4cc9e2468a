// internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
database:
  postgres:
    host: "localhost"
    database: "fashionstore"
    user: "shop"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Database.CatalogBackend)
	assert.Equal(t, 0.1, cfg.Chatbot.ConfidenceThreshold)
	assert.Equal(t, "product_search_query", cfg.Chatbot.SearchIntentTag)
	assert.Equal(t, 3, cfg.Chatbot.MaxResults)
	assert.Equal(t, 24, cfg.Chatbot.ListingPageSize)
	assert.Equal(t, "configs/intents.json", cfg.Chatbot.IntentsPath)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ElasticsearchBackend(t *testing.T) {
	path := writeConfigFile(t, `
database:
  catalog_backend: "elasticsearch"
  elasticsearch:
    addresses:
      - "http://localhost:9200"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "elasticsearch", cfg.Database.CatalogBackend)
	assert.Equal(t, "products", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.GetURL())
}

func TestLoadFromFile_InvalidBackend(t *testing.T) {
	path := writeConfigFile(t, `
database:
  catalog_backend: "mongodb"
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadFromFile_MissingPostgresHost(t *testing.T) {
	path := writeConfigFile(t, `
database:
  catalog_backend: "postgres"
  postgres:
    database: "fashionstore"
    user: "shop"
`)

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		Database: "fashionstore",
		User:     "shop",
		Password: "secret",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=shop password=secret dbname=fashionstore sslmode=disable",
		cfg.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}
