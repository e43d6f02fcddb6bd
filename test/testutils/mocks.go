// Package testutils provides mock implementations and test data factories
// for the nutrition engine test suites.
package testutils

import (
	"context"
	"sync/atomic"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockSourceProvider is a testify mock for the SourceProvider port.
type MockSourceProvider struct {
	mock.Mock
}

// Name returns the mocked provider name.
func (m *MockSourceProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// Lookup returns the mocked outcome.
func (m *MockSourceProvider) Lookup(ctx context.Context, ingredientName string) outbound.LookupOutcome {
	args := m.Called(ctx, ingredientName)
	return args.Get(0).(outbound.LookupOutcome)
}

// StubProvider is a scripted provider that returns a fixed outcome and
// counts invocations. Simpler than the testify mock when a test only cares
// about call counts and cascade order.
type StubProvider struct {
	ProviderName string
	Outcome      outbound.LookupOutcome
	calls        atomic.Int64
}

// NewStubProvider creates a stub returning the given outcome on every call.
func NewStubProvider(name string, outcome outbound.LookupOutcome) *StubProvider {
	return &StubProvider{ProviderName: name, Outcome: outcome}
}

// Name returns the stubbed provider name.
func (s *StubProvider) Name() string { return s.ProviderName }

// Lookup counts the call and returns the scripted outcome.
func (s *StubProvider) Lookup(ctx context.Context, ingredientName string) outbound.LookupOutcome {
	s.calls.Add(1)
	return s.Outcome
}

// Calls reports how many times Lookup ran.
func (s *StubProvider) Calls() int { return int(s.calls.Load()) }

// HitOutcome builds a successful lookup outcome with the given source and
// confidence over an arbitrary but non-trivial nutrient profile.
func HitOutcome(source nutrition.Source, confidence float64) outbound.LookupOutcome {
	return outbound.LookupOutcome{
		Status: outbound.LookupHit,
		Record: nutrition.Record{
			Calories: 200, Protein: 10, Carbohydrates: 20, Fat: 5,
			Fiber: 2, Sugar: 4, Sodium: 100, Cholesterol: 15, SaturatedFat: 1.5,
			Source: source, Confidence: confidence,
		},
	}
}

// StubEstimator is a fixed-record Estimator.
type StubEstimator struct {
	Record nutrition.Record
	calls  atomic.Int64
}

// Estimate counts the call and returns the scripted record.
func (s *StubEstimator) Estimate(ingredientName string) nutrition.Record {
	s.calls.Add(1)
	return s.Record
}

// Calls reports how many times Estimate ran.
func (s *StubEstimator) Calls() int { return int(s.calls.Load()) }
