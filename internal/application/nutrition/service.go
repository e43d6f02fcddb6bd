package nutrition

import (
	"context"
	"time"

	domain "github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/cache"
	"github.com/alchemorsel/nutrition/internal/infrastructure/monitoring"
	"github.com/alchemorsel/nutrition/internal/infrastructure/units"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CalculationMethod tags recipe results produced by this engine.
const CalculationMethod = "source_cascade"

// DefaultMaxConcurrent bounds parallel per-ingredient resolutions within one
// recipe calculation so a large recipe cannot flood the external providers.
const DefaultMaxConcurrent = 4

// recipeFallback substitutes for an ingredient whose pipeline failed
// unexpectedly during recipe aggregation. Grams is pinned to 100 so the
// scaled record equals the per-100g record and the scaling invariant holds.
var recipeFallback = domain.Record{
	Calories: 50, Protein: 2, Carbohydrates: 8, Fat: 1,
	Fiber: 1, Sugar: 3, Sodium: 20, Cholesterol: 0, SaturatedFat: 0.3,
	Source: domain.SourceFallback, Confidence: 0.2,
}

// Options configures the engine service.
type Options struct {
	CacheTTL      time.Duration
	MaxConcurrent int
}

// Service is the nutrition engine: it resolves single ingredients through
// cache, cascade and converter, and aggregates recipes. Built once at
// process start with its providers, cache and estimator; immutable after
// construction.
type Service struct {
	resolver  *Resolver
	converter *units.Converter
	cache     outbound.NutritionCache
	cacheTTL  time.Duration
	maxConc   int
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewService creates the engine service.
func NewService(resolver *Resolver, converter *units.Converter, nutritionCache outbound.NutritionCache, opts Options, logger *zap.Logger) *Service {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	maxConc := opts.MaxConcurrent
	if maxConc <= 0 {
		maxConc = DefaultMaxConcurrent
	}
	return &Service{
		resolver:  resolver,
		converter: converter,
		cache:     nutritionCache,
		cacheTTL:  ttl,
		maxConc:   maxConc,
		logger:    logger.Named("nutrition-engine"),
		tracer:    otel.Tracer("nutrition-engine"),
	}
}

// GetIngredientNutrition resolves one ingredient to its requested quantity.
// Resolution itself never fails; the returned error is non-nil only for
// invalid input or context cancellation.
func (s *Service) GetIngredientNutrition(ctx context.Context, name string, quantity float64, unit string) (*domain.IngredientResolution, error) {
	req := domain.IngredientRequest{Name: name, Quantity: quantity, Unit: unit}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := s.resolveIngredient(ctx, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// CalculateRecipeNutrition resolves every ingredient and sums the scaled
// records into a recipe total. Ingredients resolve concurrently up to the
// configured limit; a failing ingredient degrades to the low-confidence
// fallback without aborting the calculation. Only cancellation aborts the
// whole operation, in which case no partial result is returned.
func (s *Service) CalculateRecipeNutrition(ctx context.Context, ingredients []domain.IngredientRequest) (*domain.RecipeResult, error) {
	ctx, span := s.tracer.Start(ctx, "engine.calculate_recipe",
		trace.WithAttributes(attribute.Int("ingredient_count", len(ingredients))))
	defer span.End()

	resolutions := make([]domain.IngredientResolution, len(ingredients))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConc)
	for i, ing := range ingredients {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resolutions[i] = *s.resolveWithRecovery(gctx, ing)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := domain.NewRecipeResult(resolutions, CalculationMethod)
	s.logger.Info("recipe nutrition calculated",
		zap.Int("ingredients", len(ingredients)),
		zap.Float64("calories", result.Total.Calories),
		zap.Float64("confidence", result.Total.Confidence))
	return &result, nil
}

// resolveWithRecovery isolates one ingredient's pipeline: any panic or
// invalid request degrades to the fixed fallback record so the rest of the
// recipe still resolves.
func (s *Service) resolveWithRecovery(ctx context.Context, req domain.IngredientRequest) (res *domain.IngredientResolution) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("ingredient pipeline panicked, substituting fallback",
				zap.String("ingredient", req.Name),
				zap.Any("panic", rec))
			res = s.fallbackResolution(req)
		}
	}()

	if err := req.Validate(); err != nil {
		s.logger.Warn("invalid ingredient request, substituting fallback",
			zap.String("ingredient", req.Name),
			zap.Error(err))
		return s.fallbackResolution(req)
	}

	return s.resolveIngredient(ctx, req)
}

// resolveIngredient is the per-ingredient pipeline: cache, cascade,
// conversion, cache write.
func (s *Service) resolveIngredient(ctx context.Context, req domain.IngredientRequest) *domain.IngredientResolution {
	timer := prometheus.NewTimer(monitoring.ResolutionDuration)
	defer timer.ObserveDuration()

	if cached, ok := s.cache.Get(ctx, req.Name, req.Quantity, req.Unit); ok {
		return cached
	}

	perHundred := s.resolver.Resolve(ctx, req.Name)
	grams := s.converter.ToGrams(req.Quantity, req.Unit, req.Name)

	res := &domain.IngredientResolution{
		Name:            req.Name,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		Grams:           grams,
		PerHundredGrams: perHundred,
		Scaled:          perHundred.Scale(grams),
	}

	// Cached entries are quantity-specific: the scaled record goes in, so
	// the write happens after conversion.
	if err := s.cache.Put(ctx, req.Name, req.Quantity, req.Unit, res, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed, continuing uncached",
			zap.String("ingredient", req.Name),
			zap.Error(err))
	}

	return res
}

func (s *Service) fallbackResolution(req domain.IngredientRequest) *domain.IngredientResolution {
	monitoring.DegradedIngredients.Inc()
	return &domain.IngredientResolution{
		Name:            req.Name,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		Grams:           100,
		PerHundredGrams: recipeFallback,
		Scaled:          recipeFallback,
	}
}
