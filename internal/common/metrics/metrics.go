// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_messages_processed_total",
			Help: "Total number of chat messages processed, by classified intent",
		},
		[]string{"intent"},
	)

	ClassifierDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_classifier_degraded_total",
			Help: "Total number of classifications served by the keyword fallback classifier",
		},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chatbot_catalog_query_duration_seconds",
			Help: "Duration of catalog search queries in seconds",
		},
		[]string{"backend"},
	)

	CatalogQueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_catalog_query_failures_total",
			Help: "Total number of failed catalog search queries",
		},
		[]string{"backend"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_catalog_cache_hits_total",
			Help: "Catalog search cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	LinkResolutionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_link_resolution_failures_total",
			Help: "Total number of reply link placeholders that resolved to the safe fallback",
		},
	)
)
