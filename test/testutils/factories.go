package testutils

import (
	"fmt"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/brianvoe/gofakeit/v6"
)

// IngredientFactory produces deterministic pseudo-random ingredient requests
// for tests that need volume rather than specific names.
type IngredientFactory struct {
	faker *gofakeit.Faker
}

// NewIngredientFactory creates a factory seeded for reproducibility.
func NewIngredientFactory(seed int64) *IngredientFactory {
	return &IngredientFactory{faker: gofakeit.New(seed)}
}

// Request builds one ingredient request with a unique name, positive
// quantity, and a recognized unit.
func (f *IngredientFactory) Request(i int) nutrition.IngredientRequest {
	units := []string{"g", "kg", "oz", "cup", "tbsp", "tsp", "ml"}
	return nutrition.IngredientRequest{
		Name:     fmt.Sprintf("%s %d", f.faker.Fruit(), i),
		Quantity: float64(f.faker.Number(1, 500)),
		Unit:     units[f.faker.Number(0, len(units)-1)],
	}
}

// Requests builds n distinct ingredient requests.
func (f *IngredientFactory) Requests(n int) []nutrition.IngredientRequest {
	reqs := make([]nutrition.IngredientRequest, n)
	for i := range reqs {
		reqs[i] = f.Request(i)
	}
	return reqs
}
