package estimator

import (
	"strings"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
)

// category pairs keyword patterns with a representative per-100g profile.
// Matching is ordered: the first category with a pattern contained in the
// lowercased ingredient name wins.
type category struct {
	name     string
	patterns []string
	profile  nutrition.Record
}

var categories = []category{
	{
		name:     "meats",
		patterns: []string{"chicken", "beef", "pork", "fish", "turkey", "lamb", "meat"},
		profile: nutrition.Record{
			Calories: 165, Protein: 25, Carbohydrates: 0, Fat: 7,
			Fiber: 0, Sugar: 0, Sodium: 70, Cholesterol: 55, SaturatedFat: 2.5,
			Source: nutrition.SourceEstimated, Confidence: categoryConfidence,
		},
	},
	{
		name:     "dairy",
		patterns: []string{"milk", "cheese", "yogurt", "butter", "cream"},
		profile: nutrition.Record{
			Calories: 150, Protein: 8, Carbohydrates: 12, Fat: 8,
			Fiber: 0, Sugar: 12, Sodium: 100, Cholesterol: 25, SaturatedFat: 5,
			Source: nutrition.SourceEstimated, Confidence: categoryConfidence,
		},
	},
	{
		name:     "grains",
		patterns: []string{"rice", "pasta", "bread", "flour", "oats", "quinoa"},
		profile: nutrition.Record{
			Calories: 130, Protein: 4, Carbohydrates: 25, Fat: 1,
			Fiber: 2, Sugar: 1, Sodium: 5, Cholesterol: 0, SaturatedFat: 0.2,
			Source: nutrition.SourceEstimated, Confidence: categoryConfidence,
		},
	},
	{
		name:     "vegetables",
		patterns: []string{"carrot", "broccoli", "spinach", "tomato", "pepper", "onion"},
		profile: nutrition.Record{
			Calories: 25, Protein: 2, Carbohydrates: 5, Fat: 0.2,
			Fiber: 3, Sugar: 3, Sodium: 10, Cholesterol: 0, SaturatedFat: 0.1,
			Source: nutrition.SourceEstimated, Confidence: categoryConfidence,
		},
	},
	{
		name:     "fruits",
		patterns: []string{"apple", "banana", "orange", "berry", "grape", "peach"},
		profile: nutrition.Record{
			Calories: 50, Protein: 1, Carbohydrates: 13, Fat: 0.2,
			Fiber: 2, Sugar: 10, Sodium: 2, Cholesterol: 0, SaturatedFat: 0.1,
			Source: nutrition.SourceEstimated, Confidence: categoryConfidence,
		},
	},
	{
		name:     "oils",
		patterns: []string{"oil", "olive oil", "vegetable oil", "coconut oil"},
		profile: nutrition.Record{
			Calories: 884, Protein: 0, Carbohydrates: 0, Fat: 100,
			Fiber: 0, Sugar: 0, Sodium: 0, Cholesterol: 0, SaturatedFat: 15,
			Source: nutrition.SourceEstimated, Confidence: categoryConfidence,
		},
	},
}

// matchCategory returns the first category profile whose pattern list
// contains a substring of the name, and whether one matched.
func matchCategory(name string) (nutrition.Record, string, bool) {
	lower := strings.ToLower(name)
	for _, c := range categories {
		for _, p := range c.patterns {
			if strings.Contains(lower, p) {
				return c.profile, c.name, true
			}
		}
	}
	return nutrition.Record{}, "", false
}
