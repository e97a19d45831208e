package costing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosbany/ordenes-sub000/entities"
)

var testNow = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

// doughFixture builds the dough scenario: 5 kg of flour at $2/kg plus 5 l of
// free water (1 l = 1 kg), yield 10 kg.
func doughFixture() (materials []entities.RecipeMaterial, products []entities.Product, conversions []entities.UnitConversion) {
	flourID := uuid.New()
	waterID := uuid.New()

	products = []entities.Product{
		{ID: flourID, Name: "Flour", PricePerUnit: decimal.NewFromInt(2), UnitMeasure: "kg"},
		{ID: waterID, Name: "Water", PricePerUnit: decimal.Zero, UnitMeasure: "l"},
	}
	conversions = []entities.UnitConversion{
		{FromUnit: "l", ToUnit: "kg", Factor: 1},
	}
	materials = []entities.RecipeMaterial{
		{Kind: entities.MaterialKindProduct, ProductID: &flourID, Quantity: 5, Unit: "kg"},
		{Kind: entities.MaterialKindProduct, ProductID: &waterID, Quantity: 5, Unit: "l"},
	}
	return materials, products, conversions
}

func TestCalculateRecipeCostsDoughScenario(t *testing.T) {
	materials, products, conversions := doughFixture()

	result, err := CalculateRecipeCosts(materials, products, nil, conversions, 10, 0, 0, nil, testNow)
	require.NoError(t, err)

	assert.True(t, result.TotalCost.Equal(decimal.NewFromInt(10)), "total cost %s", result.TotalCost)
	assert.True(t, result.UnitCost.Equal(decimal.NewFromInt(1)), "unit cost %s", result.UnitCost)
	require.NotNil(t, result.HistoryEntry, "first compute must open the ledger")
	assert.True(t, result.Changed)
	assert.Equal(t, 0.0, result.HistoryEntry.ChangePercentage)
	assert.Equal(t, testNow, result.HistoryEntry.Date)
}

func TestCalculateRecipeCostsPizzaScenario(t *testing.T) {
	doughID := uuid.New()
	recipes := []entities.Recipe{
		{ID: doughID, Name: "Dough", YieldUnit: "kg", UnitCost: decimal.NewFromInt(1)},
	}
	materials := []entities.RecipeMaterial{
		{Kind: entities.MaterialKindRecipe, SubRecipeID: &doughID, Quantity: 0.3, Unit: "kg"},
	}

	result, err := CalculateRecipeCosts(materials, nil, recipes, nil, 1, 20, 25, nil, testNow)
	require.NoError(t, err)

	assert.True(t, result.TotalCost.Equal(decimal.NewFromFloat(0.3)), "total cost %s", result.TotalCost)
	assert.True(t, result.UnitCost.Equal(decimal.NewFromFloat(0.3)), "unit cost %s", result.UnitCost)
	assert.True(t, result.SuggestedPrice.Equal(decimal.NewFromFloat(0.5)), "suggested price %s", result.SuggestedPrice)
}

func TestCalculateRecipeCostsMarkupInverse(t *testing.T) {
	materials, products, conversions := doughFixture()

	result, err := CalculateRecipeCosts(materials, products, nil, conversions, 10, 35, 15, nil, testNow)
	require.NoError(t, err)

	// unitCost = suggestedPrice * (1 - p/100) * (1 - f/100)
	reconstructed := result.SuggestedPrice.
		Mul(decimal.NewFromFloat(0.85)).
		Mul(decimal.NewFromFloat(0.65))
	diff, _ := reconstructed.Sub(result.UnitCost).Abs().Float64()
	assert.Less(t, diff, 1e-9)
}

func TestCalculateRecipeCostsDeterminism(t *testing.T) {
	materials, products, conversions := doughFixture()

	first, err := CalculateRecipeCosts(materials, products, nil, conversions, 10, 20, 25, nil, testNow)
	require.NoError(t, err)
	second, err := CalculateRecipeCosts(materials, products, nil, conversions, 10, 20, 25, nil, testNow)
	require.NoError(t, err)

	assert.True(t, first.TotalCost.Equal(second.TotalCost))
	assert.True(t, first.UnitCost.Equal(second.UnitCost))
	assert.True(t, first.SuggestedPrice.Equal(second.SuggestedPrice))
}

func TestCalculateRecipeCostsValidation(t *testing.T) {
	materials, products, conversions := doughFixture()

	tests := []struct {
		name   string
		yield  float64
		fixed  float64
		profit float64
	}{
		{name: "zero yield", yield: 0, fixed: 20, profit: 25},
		{name: "negative yield", yield: -4, fixed: 20, profit: 25},
		{name: "fixed cost at 100", yield: 10, fixed: 100, profit: 25},
		{name: "negative fixed cost", yield: 10, fixed: -1, profit: 25},
		{name: "profit at 100", yield: 10, fixed: 20, profit: 100},
		{name: "negative profit", yield: 10, fixed: 20, profit: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateRecipeCosts(materials, products, nil, conversions, tt.yield, tt.fixed, tt.profit, nil, testNow)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestCalculateRecipeCostsHistoryTolerance(t *testing.T) {
	materials, products, conversions := doughFixture()

	unchanged := decimal.NewFromInt(1)
	result, err := CalculateRecipeCosts(materials, products, nil, conversions, 10, 0, 0, &unchanged, testNow)
	require.NoError(t, err)
	assert.False(t, result.Changed, "identical unit cost is a cosmetic recompute")
	assert.Nil(t, result.HistoryEntry)

	previous := decimal.NewFromFloat(0.8)
	result, err = CalculateRecipeCosts(materials, products, nil, conversions, 10, 0, 0, &previous, testNow)
	require.NoError(t, err)
	require.NotNil(t, result.HistoryEntry)
	assert.InDelta(t, 25.0, result.HistoryEntry.ChangePercentage, 1e-9)
}

func TestCalculateRecipeCostsFailsOnUnresolvableLine(t *testing.T) {
	materials, products, _ := doughFixture()

	// Reprice the flour line in grams with no conversion table: the line can
	// no longer resolve and the whole compute must fail rather than report a
	// partial total.
	materials[0].Unit = "g"
	_, err := CalculateRecipeCosts(materials, products, nil, nil, 10, 0, 0, nil, testNow)
	var convErr *UnitConversionError
	require.ErrorAs(t, err, &convErr)
}

func TestCalculateRecipeCostsZeroPreviousCost(t *testing.T) {
	materials, products, conversions := doughFixture()

	// A stored zero unit cost moving to a positive one is a real change, but
	// the relative delta has no base: the entry records zero.
	previous := decimal.Zero
	result, err := CalculateRecipeCosts(materials, products, nil, conversions, 10, 0, 0, &previous, testNow)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, result.HistoryEntry)
	assert.Equal(t, 0.0, result.HistoryEntry.ChangePercentage)
}
