package nutrition

import (
	"context"
	"errors"
	"testing"

	domain "github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	"github.com/alchemorsel/nutrition/test/testutils"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func newResolver(estimate domain.Record, sources ...outbound.SourceProvider) (*Resolver, *testutils.StubEstimator) {
	est := &testutils.StubEstimator{Record: estimate}
	r := NewResolver(sources, est, 0.7, zap.NewNop(), otel.Tracer("test"))
	return r, est
}

func estimated() domain.Record {
	return domain.Record{
		Calories: 100, Protein: 3, Carbohydrates: 15, Fat: 2,
		Source: domain.SourceEstimated, Confidence: 0.3,
	}
}

func TestResolveAcceptsFirstProviderAboveThreshold(t *testing.T) {
	first := testutils.NewStubProvider("first", testutils.HitOutcome(domain.SourceAPINinjas, 0.85))
	second := testutils.NewStubProvider("second", testutils.HitOutcome(domain.SourceUSDA, 0.9))

	r, est := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "chicken breast")

	assert.Equal(t, domain.SourceAPINinjas, rec.Source)
	assert.Equal(t, 0.85, rec.Confidence)
	// Lower-priority providers are never consulted.
	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, 0, second.Calls())
	assert.Equal(t, 0, est.Calls())
}

func TestResolveFailsOverOnNoMatch(t *testing.T) {
	first := testutils.NewStubProvider("first", outbound.LookupOutcome{Status: outbound.LookupNoMatch})
	second := testutils.NewStubProvider("second", testutils.HitOutcome(domain.SourceUSDA, 0.9))

	r, _ := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "chicken breast")

	assert.Equal(t, domain.SourceUSDA, rec.Source)
	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, 1, second.Calls())
}

func TestResolveFailsOverOnError(t *testing.T) {
	first := testutils.NewStubProvider("first", outbound.LookupOutcome{
		Status: outbound.LookupError,
		Err:    errors.New("connection refused"),
	})
	second := testutils.NewStubProvider("second", testutils.HitOutcome(domain.SourceSpoonacular, 0.8))

	r, _ := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "basil")

	assert.Equal(t, domain.SourceSpoonacular, rec.Source)
}

func TestResolveSkipsUnconfiguredProviders(t *testing.T) {
	first := testutils.NewStubProvider("first", outbound.LookupOutcome{Status: outbound.LookupSkipped})
	second := testutils.NewStubProvider("second", testutils.HitOutcome(domain.SourceUSDA, 0.9))

	r, _ := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "basil")

	assert.Equal(t, domain.SourceUSDA, rec.Source)
}

func TestResolveKeepsBestSubThresholdCandidate(t *testing.T) {
	// A sub-threshold result is kept while lower-priority sources are
	// tried; when they all fail, the best candidate wins over the
	// estimator.
	first := testutils.NewStubProvider("first", testutils.HitOutcome(domain.SourceAPINinjas, 0.5))
	second := testutils.NewStubProvider("second", outbound.LookupOutcome{Status: outbound.LookupNoMatch})

	r, est := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "dragon fruit")

	assert.Equal(t, domain.SourceAPINinjas, rec.Source)
	assert.Equal(t, 0.5, rec.Confidence)
	assert.Equal(t, 1, second.Calls())
	assert.Equal(t, 0, est.Calls())
}

func TestResolvePrefersHigherConfidenceCandidate(t *testing.T) {
	first := testutils.NewStubProvider("first", testutils.HitOutcome(domain.SourceAPINinjas, 0.4))
	second := testutils.NewStubProvider("second", testutils.HitOutcome(domain.SourceSpoonacular, 0.6))

	r, _ := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "dragon fruit")

	assert.Equal(t, domain.SourceSpoonacular, rec.Source)
	assert.Equal(t, 0.6, rec.Confidence)
}

func TestResolveSubThresholdBeatsLaterAcceptance(t *testing.T) {
	// A later provider meeting the threshold is accepted even after a
	// sub-threshold candidate was recorded.
	first := testutils.NewStubProvider("first", testutils.HitOutcome(domain.SourceAPINinjas, 0.5))
	second := testutils.NewStubProvider("second", testutils.HitOutcome(domain.SourceUSDA, 0.9))

	r, _ := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "dragon fruit")

	assert.Equal(t, domain.SourceUSDA, rec.Source)
	assert.Equal(t, 0.9, rec.Confidence)
}

func TestResolveEstimatorOnTotalExhaustion(t *testing.T) {
	first := testutils.NewStubProvider("first", outbound.LookupOutcome{Status: outbound.LookupError, Err: errors.New("down")})
	second := testutils.NewStubProvider("second", outbound.LookupOutcome{Status: outbound.LookupNoMatch})

	r, est := newResolver(estimated(), first, second)
	rec := r.Resolve(context.Background(), "unobtainium")

	assert.Equal(t, domain.SourceEstimated, rec.Source)
	assert.Equal(t, 0.3, rec.Confidence)
	assert.Equal(t, 1, est.Calls())
}

func TestResolveNoProvidersConfigured(t *testing.T) {
	r, est := newResolver(estimated())
	rec := r.Resolve(context.Background(), "anything")

	assert.Equal(t, domain.SourceEstimated, rec.Source)
	assert.Equal(t, 1, est.Calls())
}

func TestResolveConfidenceAlwaysInRange(t *testing.T) {
	outcomes := []outbound.LookupOutcome{
		testutils.HitOutcome(domain.SourceAPINinjas, 0.85),
		{Status: outbound.LookupNoMatch},
		{Status: outbound.LookupError, Err: errors.New("boom")},
		{Status: outbound.LookupSkipped},
	}
	for _, out := range outcomes {
		r, _ := newResolver(estimated(), testutils.NewStubProvider("p", out))
		rec := r.Resolve(context.Background(), "whatever")
		assert.GreaterOrEqual(t, rec.Confidence, 0.0)
		assert.LessOrEqual(t, rec.Confidence, 1.0)
	}
}
