package nutrition

// Value Objects - Immutable objects that describe nutrition facts

// Source identifies where a nutrition record came from
type Source string

const (
	SourceAPINinjas   Source = "api_ninjas"
	SourceSpoonacular Source = "spoonacular"
	SourceUSDA        Source = "usda"
	SourceEstimated   Source = "estimated"
	SourceFallback    Source = "fallback"
	SourceCalculated  Source = "calculated"
)

// Record holds nutrition facts for a fixed basis (per 100 g when produced by
// a provider or the estimator, per requested quantity after scaling).
// Records are never mutated; Scale and Add return new values.
type Record struct {
	Calories      float64
	Protein       float64 // grams
	Carbohydrates float64 // grams
	Fat           float64 // grams
	Fiber         float64 // grams
	Sugar         float64 // grams
	Sodium        float64 // milligrams
	Cholesterol   float64 // milligrams
	SaturatedFat  float64 // grams
	Source        Source
	Confidence    float64 // 0.0 - 1.0
}

// Scale returns a new record with every nutrient multiplied by grams/100.
// Source and Confidence carry over unchanged.
func (r Record) Scale(grams float64) Record {
	m := grams / 100.0
	return Record{
		Calories:      r.Calories * m,
		Protein:       r.Protein * m,
		Carbohydrates: r.Carbohydrates * m,
		Fat:           r.Fat * m,
		Fiber:         r.Fiber * m,
		Sugar:         r.Sugar * m,
		Sodium:        r.Sodium * m,
		Cholesterol:   r.Cholesterol * m,
		SaturatedFat:  r.SaturatedFat * m,
		Source:        r.Source,
		Confidence:    r.Confidence,
	}
}

// Add returns a new record with every nutrient summed field-wise.
// Source and Confidence of the receiver are kept; the aggregator sets both
// explicitly on the total it builds.
func (r Record) Add(other Record) Record {
	r.Calories += other.Calories
	r.Protein += other.Protein
	r.Carbohydrates += other.Carbohydrates
	r.Fat += other.Fat
	r.Fiber += other.Fiber
	r.Sugar += other.Sugar
	r.Sodium += other.Sodium
	r.Cholesterol += other.Cholesterol
	r.SaturatedFat += other.SaturatedFat
	return r
}

// ClampNonNegative returns a copy with every nutrient floored at zero.
// Model-based estimation can predict below zero for sparse names.
func (r Record) ClampNonNegative() Record {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	r.Calories = clamp(r.Calories)
	r.Protein = clamp(r.Protein)
	r.Carbohydrates = clamp(r.Carbohydrates)
	r.Fat = clamp(r.Fat)
	r.Fiber = clamp(r.Fiber)
	r.Sugar = clamp(r.Sugar)
	r.Sodium = clamp(r.Sodium)
	r.Cholesterol = clamp(r.Cholesterol)
	r.SaturatedFat = clamp(r.SaturatedFat)
	return r
}

// Validate validates record invariants
func (r Record) Validate() error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return ErrInvalidConfidence
	}
	return nil
}
