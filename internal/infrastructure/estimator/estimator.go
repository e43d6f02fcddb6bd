// Package estimator provides the always-succeeding internal nutrition
// fallback. It tries a trained model first, then category heuristics, then a
// generic profile; Estimate is a total function and never fails.
package estimator

import (
	"os"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

const (
	modelConfidence    = 0.6
	categoryConfidence = 0.5
	genericConfidence  = 0.3
)

// genericProfile is returned when neither the model nor any category applies.
var genericProfile = nutrition.Record{
	Calories: 100, Protein: 3, Carbohydrates: 15, Fat: 2,
	Fiber: 1, Sugar: 5, Sodium: 50, Cholesterol: 5, SaturatedFat: 0.5,
	Source: nutrition.SourceEstimated, Confidence: genericConfidence,
}

// Config holds estimator artifact locations.
type Config struct {
	ModelPath      string
	VocabularyPath string
}

// Estimator estimates per-100g nutrition from an ingredient name.
type Estimator struct {
	model  *nutrientModel
	logger *zap.Logger
}

// New creates an estimator, attempting the one-time model load. Artifact
// absence is not an error and silently selects the heuristic tier.
func New(cfg Config, logger *zap.Logger) *Estimator {
	e := &Estimator{logger: logger.Named("estimator")}

	if cfg.ModelPath == "" || cfg.VocabularyPath == "" {
		e.logger.Info("no model artifacts configured, using heuristic estimation")
		return e
	}

	model, err := loadModel(cfg.ModelPath, cfg.VocabularyPath)
	if err != nil {
		if os.IsNotExist(err) {
			e.logger.Info("model artifacts not found, using heuristic estimation",
				zap.String("model_path", cfg.ModelPath))
		} else {
			e.logger.Error("failed to load nutrition model", zap.Error(err))
		}
		return e
	}

	e.model = model
	e.logger.Info("nutrition model loaded",
		zap.String("model_path", cfg.ModelPath),
		zap.Int("vocabulary_size", len(model.vocabulary)))
	return e
}

// Estimate returns a per-100g record for any ingredient name. It never fails;
// degradation shows up only as a lower confidence.
func (e *Estimator) Estimate(ingredientName string) nutrition.Record {
	if e.model != nil {
		p := e.model.predict(ingredientName)
		rec := nutrition.Record{
			Calories:      p[0],
			Protein:       p[1],
			Carbohydrates: p[2],
			Fat:           p[3],
			Fiber:         p[4],
			Sugar:         p[5],
			Sodium:        p[6],
			Cholesterol:   p[7],
			SaturatedFat:  p[8],
			Source:        nutrition.SourceEstimated,
			Confidence:    modelConfidence,
		}
		monitoring.EstimatorTier.WithLabelValues("model").Inc()
		return rec.ClampNonNegative()
	}

	if profile, name, ok := matchCategory(ingredientName); ok {
		e.logger.Debug("category heuristic matched",
			zap.String("ingredient", ingredientName),
			zap.String("category", name))
		monitoring.EstimatorTier.WithLabelValues("category").Inc()
		return profile
	}

	monitoring.EstimatorTier.WithLabelValues("generic").Inc()
	return genericProfile
}
