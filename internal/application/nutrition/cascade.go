// Package nutrition implements the nutrition resolution engine: the source
// cascade, quantity conversion and recipe aggregation.
package nutrition

import (
	"context"

	domain "github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/monitoring"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultAcceptanceThreshold is the confidence at which a provider result is
// accepted without consulting lower-priority providers.
const DefaultAcceptanceThreshold = 0.7

// Resolver runs the source cascade: providers in fixed priority order, an
// acceptance threshold, and the estimator as the guaranteed last resort.
// Resolve never fails; every failure mode degrades to a lower-confidence
// record.
type Resolver struct {
	providers []outbound.SourceProvider
	estimator outbound.Estimator
	threshold float64
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewResolver creates a cascade resolver. Providers are tried in the order
// given; threshold <= 0 selects the default.
func NewResolver(sources []outbound.SourceProvider, estimator outbound.Estimator, threshold float64, logger *zap.Logger, tracer trace.Tracer) *Resolver {
	if threshold <= 0 {
		threshold = DefaultAcceptanceThreshold
	}
	return &Resolver{
		providers: sources,
		estimator: estimator,
		threshold: threshold,
		logger:    logger.Named("resolver"),
		tracer:    tracer,
	}
}

// Resolve produces a per-100g record for the ingredient name. A result at or
// above the acceptance threshold is taken immediately; sub-threshold results
// are kept as candidates while lower-priority providers are tried for
// something better. When no external provider produces any usable record the
// estimator answers, so Resolve is total.
func (r *Resolver) Resolve(ctx context.Context, ingredientName string) domain.Record {
	ctx, span := r.tracer.Start(ctx, "resolver.resolve",
		trace.WithAttributes(attribute.String("ingredient", ingredientName)))
	defer span.End()

	var best *domain.Record

	for _, p := range r.providers {
		if ctx.Err() != nil {
			break
		}

		timer := prometheus.NewTimer(monitoring.ProviderLookupDuration.WithLabelValues(p.Name()))
		out := p.Lookup(ctx, ingredientName)
		timer.ObserveDuration()
		monitoring.ProviderLookups.WithLabelValues(p.Name(), out.Status.String()).Inc()

		switch out.Status {
		case outbound.LookupHit:
			if out.Record.Confidence >= r.threshold {
				span.SetAttributes(attribute.String("source", string(out.Record.Source)))
				return out.Record
			}
			r.logger.Debug("result below acceptance threshold, trying lower-priority sources",
				zap.String("ingredient", ingredientName),
				zap.String("provider", p.Name()),
				zap.Float64("confidence", out.Record.Confidence))
			if best == nil || out.Record.Confidence > best.Confidence {
				rec := out.Record
				best = &rec
			}
		case outbound.LookupNoMatch, outbound.LookupError, outbound.LookupSkipped:
			// Cascade continues; the provider already logged details.
		}
	}

	if best != nil {
		span.SetAttributes(attribute.String("source", string(best.Source)))
		return *best
	}

	rec := r.estimator.Estimate(ingredientName)
	r.logger.Debug("all external sources exhausted, estimated",
		zap.String("ingredient", ingredientName),
		zap.Float64("confidence", rec.Confidence))
	span.SetAttributes(attribute.String("source", string(rec.Source)))
	return rec
}
