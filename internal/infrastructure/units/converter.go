// Package units converts user-facing quantity/unit pairs to absolute grams.
package units

import "strings"

// gramsPerUnit maps recognized units to their approximate weight in grams.
// Volume units assume water-like density; cups are handled separately.
var gramsPerUnit = map[string]float64{
	"g":          1,
	"gram":       1,
	"grams":      1,
	"kg":         1000,
	"kilogram":   1000,
	"oz":         28.35,
	"ounce":      28.35,
	"lb":         453.59,
	"pound":      453.59,
	"cup":        240,
	"cups":       240,
	"tbsp":       15,
	"tablespoon": 15,
	"tsp":        5,
	"teaspoon":   5,
	"ml":         1,
	"l":          1000,
	"liter":      1000,
}

// cupWeights is an ordered ingredient-specific override table for one cup.
// Ordered so that longer keys ("brown sugar") match before their substrings
// ("sugar"). Weights in grams.
var cupWeights = []struct {
	ingredient string
	grams      float64
}{
	{"brown sugar", 213},
	{"flour", 120},
	{"sugar", 200},
	{"butter", 227},
	{"milk", 240},
	{"water", 240},
	{"rice", 185},
	{"pasta", 100},
	{"breadcrumbs", 108},
	{"oats", 80},
	{"coconut", 80},
	{"nuts", 140},
	{"chocolate", 175},
}

// defaultCupGrams is the liquid-equivalent cup weight used when no
// ingredient-specific entry matches.
const defaultCupGrams = 240

// unknownUnitGrams treats an unrecognized unit as 100 g per unit. This is a
// documented approximation, not an error: "2 servings" resolves to 200 g.
const unknownUnitGrams = 100

// Converter maps (quantity, unit, ingredient name) to grams.
type Converter struct{}

// NewConverter creates a unit converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ToGrams converts quantity in the given unit to grams. Quantity must be
// validated positive by the caller. The ingredient name only matters for
// cup conversions, where staple-specific cup weights apply.
func (c *Converter) ToGrams(quantity float64, unit, ingredientName string) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))

	if u == "cup" || u == "cups" {
		return quantity * cupGrams(ingredientName)
	}

	g, ok := gramsPerUnit[u]
	if !ok {
		g = unknownUnitGrams
	}
	return quantity * g
}

func cupGrams(ingredientName string) float64 {
	name := strings.ToLower(ingredientName)
	for _, cw := range cupWeights {
		if strings.Contains(name, cw.ingredient) {
			return cw.grams
		}
	}
	return defaultCupGrams
}
