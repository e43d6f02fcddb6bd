// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces the engine uses to reach external data sources.
package outbound

import (
	"context"
	"time"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
)

// LookupStatus tags the outcome of a provider lookup. Providers never return
// a plain error for ordinary failure modes; the cascade switches on this tag.
type LookupStatus int

const (
	// LookupHit means the provider returned a fully populated record.
	LookupHit LookupStatus = iota
	// LookupNoMatch means the provider answered but had no usable result.
	LookupNoMatch
	// LookupError means the call itself failed (network, status, decode).
	LookupError
	// LookupSkipped means the provider is not configured (no credential).
	LookupSkipped
)

// String returns the status label used in logs and metrics.
func (s LookupStatus) String() string {
	switch s {
	case LookupHit:
		return "hit"
	case LookupNoMatch:
		return "no_match"
	case LookupError:
		return "error"
	case LookupSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// LookupOutcome is the tagged result of a single provider lookup.
type LookupOutcome struct {
	Status LookupStatus
	Record nutrition.Record
	Err    error
}

// SourceProvider is one external nutrition data source. Lookup returns a
// per-100g record on success and a tagged failure otherwise; it must honor
// ctx cancellation and its own bounded timeout, and must not panic.
type SourceProvider interface {
	Name() string
	Lookup(ctx context.Context, ingredientName string) LookupOutcome
}

// Estimator is the always-succeeding internal fallback. Estimate is a total
// function: it returns a per-100g record for any name.
type Estimator interface {
	Estimate(ingredientName string) nutrition.Record
}

// NutritionCache stores resolved ingredient results keyed by the exact
// (name, quantity, unit) triple. Implementations treat backend errors as
// misses on read; Put errors are reported so callers can log them, but a
// failed write never fails a resolution.
type NutritionCache interface {
	Get(ctx context.Context, name string, quantity float64, unit string) (*nutrition.IngredientResolution, bool)
	Put(ctx context.Context, name string, quantity float64, unit string, res *nutrition.IngredientResolution, ttl time.Duration) error
}
