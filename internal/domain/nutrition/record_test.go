package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		Calories: 200, Protein: 10, Carbohydrates: 20, Fat: 5,
		Fiber: 2, Sugar: 4, Sodium: 100, Cholesterol: 15, SaturatedFat: 1.5,
		Source: SourceUSDA, Confidence: 0.9,
	}
}

func TestRecordScale(t *testing.T) {
	r := sampleRecord()

	scaled := r.Scale(50)

	assert.InDelta(t, 100.0, scaled.Calories, 1e-9)
	assert.InDelta(t, 5.0, scaled.Protein, 1e-9)
	assert.InDelta(t, 10.0, scaled.Carbohydrates, 1e-9)
	assert.InDelta(t, 2.5, scaled.Fat, 1e-9)
	assert.InDelta(t, 1.0, scaled.Fiber, 1e-9)
	assert.InDelta(t, 2.0, scaled.Sugar, 1e-9)
	assert.InDelta(t, 50.0, scaled.Sodium, 1e-9)
	assert.InDelta(t, 7.5, scaled.Cholesterol, 1e-9)
	assert.InDelta(t, 0.75, scaled.SaturatedFat, 1e-9)

	// Source and confidence carry over; the original is untouched.
	assert.Equal(t, SourceUSDA, scaled.Source)
	assert.Equal(t, 0.9, scaled.Confidence)
	assert.Equal(t, 200.0, r.Calories)
}

func TestRecordScaleLinearity(t *testing.T) {
	r := sampleRecord()

	once := r.Scale(75)
	twice := r.Scale(150)

	assert.InDelta(t, once.Calories*2, twice.Calories, 1e-9)
	assert.InDelta(t, once.Protein*2, twice.Protein, 1e-9)
	assert.InDelta(t, once.Fat*2, twice.Fat, 1e-9)
	assert.InDelta(t, once.Sodium*2, twice.Sodium, 1e-9)
}

func TestRecordAdd(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()

	sum := a.Add(b)

	assert.Equal(t, 400.0, sum.Calories)
	assert.Equal(t, 20.0, sum.Protein)
	assert.Equal(t, 3.0, sum.SaturatedFat)
	// Receiver copy semantics: a itself is unchanged.
	assert.Equal(t, 200.0, a.Calories)
}

func TestRecordClampNonNegative(t *testing.T) {
	r := Record{Calories: -10, Protein: 5, Fat: -0.1}

	clamped := r.ClampNonNegative()

	assert.Equal(t, 0.0, clamped.Calories)
	assert.Equal(t, 5.0, clamped.Protein)
	assert.Equal(t, 0.0, clamped.Fat)
}

func TestRecordValidate(t *testing.T) {
	valid := sampleRecord()
	require.NoError(t, valid.Validate())

	invalid := sampleRecord()
	invalid.Confidence = 1.2
	assert.ErrorIs(t, invalid.Validate(), ErrInvalidConfidence)

	negative := sampleRecord()
	negative.Confidence = -0.1
	assert.ErrorIs(t, negative.Validate(), ErrInvalidConfidence)
}

func TestIngredientRequestValidate(t *testing.T) {
	assert.NoError(t, IngredientRequest{Name: "salt", Quantity: 1, Unit: "tsp"}.Validate())
	assert.ErrorIs(t, IngredientRequest{Quantity: 1}.Validate(), ErrEmptyName)
	assert.ErrorIs(t, IngredientRequest{Name: "salt", Quantity: 0}.Validate(), ErrInvalidQuantity)
	assert.ErrorIs(t, IngredientRequest{Name: "salt", Quantity: -2}.Validate(), ErrInvalidQuantity)
}

func TestNewRecipeResultEmpty(t *testing.T) {
	result := NewRecipeResult(nil, "source_cascade")

	assert.Equal(t, 0.0, result.Total.Calories)
	assert.Equal(t, 0.0, result.Total.Confidence)
	assert.Equal(t, SourceCalculated, result.Total.Source)
	assert.Empty(t, result.Ingredients)
	assert.False(t, result.CalculatedAt.IsZero())
}

func TestNewRecipeResultAggregation(t *testing.T) {
	high := sampleRecord()
	high.Confidence = 0.9
	low := sampleRecord()
	low.Confidence = 0.3

	result := NewRecipeResult([]IngredientResolution{
		{Name: "a", Scaled: high},
		{Name: "b", Scaled: low},
	}, "source_cascade")

	assert.Equal(t, 400.0, result.Total.Calories)
	assert.Equal(t, 20.0, result.Total.Protein)
	// Unweighted mean: gram contribution does not matter.
	assert.InDelta(t, 0.6, result.Total.Confidence, 1e-9)
	assert.Equal(t, SourceCalculated, result.Total.Source)
	assert.Len(t, result.Ingredients, 2)
}
