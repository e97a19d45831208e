package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosbany/ordenes-sub000/entities"
)

func TestResolveMaterialCostProductLine(t *testing.T) {
	flourID := uuid.New()
	products := []entities.Product{
		{ID: flourID, Name: "Flour", PricePerUnit: decimal.NewFromInt(2), UnitMeasure: "kg"},
	}
	conversions := []entities.UnitConversion{
		{FromUnit: "kg", ToUnit: "g", Factor: 1000},
	}

	line := entities.RecipeMaterial{
		Kind:      entities.MaterialKindProduct,
		ProductID: &flourID,
		Quantity:  500,
		Unit:      "g",
	}

	cost, err := ResolveMaterialCost(line, products, nil, conversions)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.NewFromInt(1)), "500 g of flour at $2/kg should cost $1, got %s", cost)
}

func TestResolveMaterialCostRecipeLineUsesStoredUnitCost(t *testing.T) {
	doughID := uuid.New()
	recipes := []entities.Recipe{
		{ID: doughID, Name: "Dough", YieldUnit: "kg", UnitCost: decimal.NewFromInt(3)},
	}

	line := entities.RecipeMaterial{
		Kind:        entities.MaterialKindRecipe,
		SubRecipeID: &doughID,
		Quantity:    0.5,
		Unit:        "kg",
	}

	cost, err := ResolveMaterialCost(line, nil, recipes, nil)
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.NewFromFloat(1.5)), "got %s", cost)
}

func TestResolveMaterialCostErrors(t *testing.T) {
	productID := uuid.New()
	recipeID := uuid.New()

	tests := []struct {
		name   string
		line   entities.RecipeMaterial
		target interface{}
	}{
		{
			name:   "missing product",
			line:   entities.RecipeMaterial{Kind: entities.MaterialKindProduct, ProductID: &productID, Quantity: 1, Unit: "kg"},
			target: new(*NotFoundError),
		},
		{
			name:   "missing recipe",
			line:   entities.RecipeMaterial{Kind: entities.MaterialKindRecipe, SubRecipeID: &recipeID, Quantity: 1, Unit: "kg"},
			target: new(*NotFoundError),
		},
		{
			name:   "non-positive quantity",
			line:   entities.RecipeMaterial{Kind: entities.MaterialKindProduct, ProductID: &productID, Quantity: 0, Unit: "kg"},
			target: new(*ValidationError),
		},
		{
			name:   "unknown kind",
			line:   entities.RecipeMaterial{Kind: "supplier", Quantity: 1, Unit: "kg"},
			target: new(*ValidationError),
		},
		{
			name:   "missing reference for kind",
			line:   entities.RecipeMaterial{Kind: entities.MaterialKindProduct, Quantity: 1, Unit: "kg"},
			target: new(*ValidationError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveMaterialCost(tt.line, nil, nil, nil)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestResolveMaterialCostNoSilentUnitFallback(t *testing.T) {
	productID := uuid.New()
	products := []entities.Product{
		{ID: productID, Name: "Oil", PricePerUnit: decimal.NewFromInt(5), UnitMeasure: "l"},
	}

	line := entities.RecipeMaterial{
		Kind:      entities.MaterialKindProduct,
		ProductID: &productID,
		Quantity:  2,
		Unit:      "kg",
	}

	_, err := ResolveMaterialCost(line, products, nil, nil)
	var convErr *UnitConversionError
	require.ErrorAs(t, err, &convErr)
}
