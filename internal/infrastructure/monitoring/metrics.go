// Package monitoring defines Prometheus metrics for the nutrition engine.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderLookups counts provider calls by provider name and tagged
	// outcome (hit, no_match, error, skipped).
	ProviderLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutrition",
		Name:      "provider_lookups_total",
		Help:      "External provider lookups by provider and outcome",
	}, []string{"provider", "outcome"})

	// ProviderLookupDuration observes provider call latency.
	ProviderLookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nutrition",
		Name:      "provider_lookup_duration_seconds",
		Help:      "External provider lookup latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	// CacheOps counts nutrition cache reads by result (hit, miss, error).
	CacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutrition",
		Name:      "cache_reads_total",
		Help:      "Nutrition cache reads by result",
	}, []string{"result"})

	// EstimatorTier counts estimator invocations by the tier that answered
	// (model, category, generic).
	EstimatorTier = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nutrition",
		Name:      "estimator_estimates_total",
		Help:      "Estimator invocations by answering tier",
	}, []string{"tier"})

	// ResolutionDuration observes end-to-end single-ingredient resolution
	// latency, including cache and conversion.
	ResolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nutrition",
		Name:      "ingredient_resolution_duration_seconds",
		Help:      "End-to-end single ingredient resolution latency",
		Buckets:   prometheus.DefBuckets,
	})

	// DegradedIngredients counts ingredients that resolved through the
	// low-confidence recipe fallback after an unexpected failure.
	DegradedIngredients = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nutrition",
		Name:      "degraded_ingredients_total",
		Help:      "Ingredients substituted with the low-confidence fallback record",
	})
)
