package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToGramsMassUnits(t *testing.T) {
	c := NewConverter()

	assert.InDelta(t, 100, c.ToGrams(100, "g", "salt"), 1e-9)
	assert.InDelta(t, 2000, c.ToGrams(2, "kg", "potatoes"), 1e-9)
	assert.InDelta(t, 56.7, c.ToGrams(2, "oz", "cheddar"), 1e-9)
	assert.InDelta(t, 453.59, c.ToGrams(1, "lb", "ground beef"), 1e-9)
}

func TestToGramsVolumeUnits(t *testing.T) {
	c := NewConverter()

	assert.InDelta(t, 15, c.ToGrams(1, "tbsp", "olive oil"), 1e-9)
	assert.InDelta(t, 10, c.ToGrams(2, "tsp", "vanilla"), 1e-9)
	assert.InDelta(t, 250, c.ToGrams(250, "ml", "stock"), 1e-9)
	assert.InDelta(t, 1000, c.ToGrams(1, "l", "water"), 1e-9)
}

func TestToGramsCupWeights(t *testing.T) {
	c := NewConverter()

	// Staple-specific cup weights override the liquid default.
	assert.InDelta(t, 120, c.ToGrams(1, "cup", "all-purpose flour"), 1e-9)
	assert.InDelta(t, 200, c.ToGrams(1, "cup", "granulated sugar"), 1e-9)
	assert.InDelta(t, 370, c.ToGrams(2, "cup", "cooked rice"), 1e-9)
	assert.InDelta(t, 108, c.ToGrams(1, "cups", "breadcrumbs"), 1e-9)

	// "brown sugar" must not fall through to the plain sugar weight.
	assert.InDelta(t, 213, c.ToGrams(1, "cup", "packed brown sugar"), 1e-9)

	// Unknown ingredients get the liquid-equivalent default.
	assert.InDelta(t, 240, c.ToGrams(1, "cup", "vegetable stock"), 1e-9)
}

func TestToGramsUnknownUnit(t *testing.T) {
	c := NewConverter()

	// Unknown units are read as multiples of 100 g, not as an error.
	assert.InDelta(t, 200, c.ToGrams(2, "serving", "lasagna"), 1e-9)
	assert.InDelta(t, 100, c.ToGrams(1, "", "mystery"), 1e-9)
}

func TestToGramsUnitNormalization(t *testing.T) {
	c := NewConverter()

	assert.InDelta(t, 15, c.ToGrams(1, " TBSP ", "butter"), 1e-9)
	assert.InDelta(t, 1000, c.ToGrams(1, "KG", "flour"), 1e-9)
}

func TestScaleThroughConverterLinearity(t *testing.T) {
	c := NewConverter()

	single := c.ToGrams(3, "tbsp", "olive oil")
	double := c.ToGrams(6, "tbsp", "olive oil")
	assert.InDelta(t, single*2, double, 1e-9)
}
