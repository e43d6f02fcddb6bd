package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// IngredientRequest is one ingredient line of a recipe as the caller gave it.
type IngredientRequest struct {
	Name     string
	Quantity float64
	Unit     string
}

// Validate validates the request
func (r IngredientRequest) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// IngredientResolution is the resolved nutrition for a single ingredient.
// PerHundredGrams is the canonical basis; Scaled is PerHundredGrams adjusted
// to the requested quantity (every field multiplied by grams/100).
type IngredientResolution struct {
	Name            string
	Quantity        float64
	Unit            string
	Grams           float64
	PerHundredGrams Record
	Scaled          Record
}

// RecipeResult aggregates resolved ingredients into a recipe total.
type RecipeResult struct {
	ID                uuid.UUID
	Total             Record
	Ingredients       []IngredientResolution
	CalculationMethod string
	CalculatedAt      time.Time
}

// NewRecipeResult builds a recipe result from per-ingredient resolutions.
// Total carries the field-wise sum of the Scaled records with source
// "calculated" and the unweighted mean of the per-ingredient confidences.
// An empty ingredient list yields a zero total with confidence 0.0.
func NewRecipeResult(ingredients []IngredientResolution, method string) RecipeResult {
	total := Record{Source: SourceCalculated}
	confidenceSum := 0.0
	for _, ing := range ingredients {
		total = total.Add(ing.Scaled)
		confidenceSum += ing.Scaled.Confidence
	}
	if len(ingredients) > 0 {
		total.Confidence = confidenceSum / float64(len(ingredients))
	}
	return RecipeResult{
		ID:                uuid.New(),
		Total:             total,
		Ingredients:       ingredients,
		CalculationMethod: method,
		CalculatedAt:      time.Now().UTC(),
	}
}
