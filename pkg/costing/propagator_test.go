package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosbany/ordenes-sub000/entities"
)

// pizzaGraph builds the two-level scenario: Dough (base, yield 10 kg) made
// from flour and water, and Pizza (yield 1 unit) using 0.3 kg of Dough with
// 20% fixed costs and 25% profit. Dough's stored figures reflect a flour
// price that has just doubled to $4/kg, so a propagation pass from Dough
// must carry the change into Pizza.
func pizzaGraph() (recipes []entities.Recipe, products []entities.Product, conversions []entities.UnitConversion, doughID, pizzaID uuid.UUID) {
	flourID := uuid.New()
	waterID := uuid.New()
	doughID = uuid.New()
	pizzaID = uuid.New()

	products = []entities.Product{
		{ID: flourID, Name: "Flour", PricePerUnit: decimal.NewFromInt(4), UnitMeasure: "kg"},
		{ID: waterID, Name: "Water", PricePerUnit: decimal.Zero, UnitMeasure: "l"},
	}
	conversions = []entities.UnitConversion{
		{FromUnit: "l", ToUnit: "kg", Factor: 1},
	}

	dough := entities.Recipe{
		ID:          doughID,
		Name:        "Dough",
		IsBase:      true,
		Yield:       10,
		YieldUnit:   "kg",
		TotalCost:   decimal.NewFromInt(20),
		UnitCost:    decimal.NewFromInt(2),
		LastUpdated: testNow,
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindProduct, ProductID: &flourID, Quantity: 5, Unit: "kg"},
			{Kind: entities.MaterialKindProduct, ProductID: &waterID, Quantity: 5, Unit: "l"},
		},
	}
	pizza := entities.Recipe{
		ID:                  pizzaID,
		Name:                "Pizza",
		Yield:               1,
		YieldUnit:           "unit",
		FixedCostPercentage: 20,
		ProfitPercentage:    25,
		TotalCost:           decimal.NewFromFloat(0.3),
		UnitCost:            decimal.NewFromFloat(0.3),
		SuggestedPrice:      decimal.NewFromFloat(0.5),
		LastUpdated:         testNow,
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &doughID, Quantity: 0.3, Unit: "kg"},
		},
	}

	return []entities.Recipe{dough, pizza}, products, conversions, doughID, pizzaID
}

func recipeByID(t *testing.T, recipes []entities.Recipe, id uuid.UUID) entities.Recipe {
	t.Helper()
	for i := range recipes {
		if recipes[i].ID == id {
			return recipes[i]
		}
	}
	t.Fatalf("recipe %s not in result", id)
	return entities.Recipe{}
}

func TestUpdateDependentRecipesPropagatesPriceChange(t *testing.T) {
	recipes, products, conversions, doughID, pizzaID := pizzaGraph()

	result, err := UpdateDependentRecipes(recipes, products, conversions, doughID, testNow.Add(1))
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Equal(t, []uuid.UUID{pizzaID}, result.Updated)

	pizza := recipeByID(t, result.Recipes, pizzaID)
	assert.True(t, pizza.TotalCost.Equal(decimal.NewFromFloat(0.6)), "total %s", pizza.TotalCost)
	assert.True(t, pizza.UnitCost.Equal(decimal.NewFromFloat(0.6)), "unit %s", pizza.UnitCost)
	assert.True(t, pizza.SuggestedPrice.Equal(decimal.NewFromInt(1)), "price %s", pizza.SuggestedPrice)

	require.Len(t, result.History, 1)
	assert.Equal(t, pizzaID, result.History[0].RecipeID)
	assert.InDelta(t, 100.0, result.History[0].ChangePercentage, 1e-9)

	// Input slice untouched.
	original := recipeByID(t, recipes, pizzaID)
	assert.True(t, original.UnitCost.Equal(decimal.NewFromFloat(0.3)))
}

func TestUpdateDependentRecipesIdempotent(t *testing.T) {
	recipes, products, conversions, doughID, _ := pizzaGraph()

	first, err := UpdateDependentRecipes(recipes, products, conversions, doughID, testNow.Add(1))
	require.NoError(t, err)
	require.NotEmpty(t, first.Updated)

	second, err := UpdateDependentRecipes(first.Recipes, products, conversions, doughID, testNow.Add(2))
	require.NoError(t, err)
	assert.Empty(t, second.Updated, "second pass with no input change must be a no-op")
	assert.Empty(t, second.History)
}

func TestUpdateDependentRecipesDiamondOrder(t *testing.T) {
	flourID := uuid.New()
	baseID := uuid.New()
	middleID := uuid.New()
	topID := uuid.New()

	products := []entities.Product{
		{ID: flourID, Name: "Flour", PricePerUnit: decimal.NewFromInt(2), UnitMeasure: "kg"},
	}

	base := entities.Recipe{
		ID: baseID, Name: "Base", Yield: 1, YieldUnit: "kg",
		UnitCost: decimal.NewFromInt(2), TotalCost: decimal.NewFromInt(2), LastUpdated: testNow,
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindProduct, ProductID: &flourID, Quantity: 1, Unit: "kg"},
		},
	}
	middle := entities.Recipe{
		ID: middleID, Name: "Middle", Yield: 1, YieldUnit: "kg",
		UnitCost: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(1), LastUpdated: testNow,
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &baseID, Quantity: 1, Unit: "kg"},
		},
	}
	// Top uses both Base directly and Middle, so it must only be computed
	// after Middle has been refreshed in the same pass.
	top := entities.Recipe{
		ID: topID, Name: "Top", Yield: 1, YieldUnit: "kg",
		UnitCost: decimal.NewFromInt(2), TotalCost: decimal.NewFromInt(2), LastUpdated: testNow,
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &baseID, Quantity: 1, Unit: "kg"},
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &middleID, Quantity: 1, Unit: "kg"},
		},
	}

	recipes := []entities.Recipe{top, middle, base}
	result, err := UpdateDependentRecipes(recipes, products, nil, baseID, testNow.Add(1))
	require.NoError(t, err)
	require.Empty(t, result.Failures)

	// Base stored 2/kg; Middle refreshes to 2/kg; Top = 2 + 2 = 4.
	updatedTop := recipeByID(t, result.Recipes, topID)
	assert.True(t, updatedTop.UnitCost.Equal(decimal.NewFromInt(4)),
		"top must see middle's refreshed cost, got %s", updatedTop.UnitCost)
}

func TestUpdateDependentRecipesCycleSafety(t *testing.T) {
	aID := uuid.New()
	bID := uuid.New()

	a := entities.Recipe{
		ID: aID, Name: "A", Yield: 1, YieldUnit: "kg", LastUpdated: testNow,
		UnitCost: decimal.NewFromInt(1),
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &bID, Quantity: 1, Unit: "kg"},
		},
	}
	b := entities.Recipe{
		ID: bID, Name: "B", Yield: 1, YieldUnit: "kg", LastUpdated: testNow,
		UnitCost: decimal.NewFromInt(1),
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &aID, Quantity: 1, Unit: "kg"},
		},
	}

	result, err := UpdateDependentRecipes([]entities.Recipe{a, b}, nil, nil, aID, testNow.Add(1))
	require.NoError(t, err)
	require.NotEmpty(t, result.Failures, "a true cycle must be surfaced, not silently truncated")

	var cycleErr *CyclicDependencyError
	require.ErrorAs(t, result.Failures[0].Err, &cycleErr)
	assert.Empty(t, result.Updated)
}

func TestUpdateDependentRecipesUnaffectedSiblingsComplete(t *testing.T) {
	recipes, products, conversions, doughID, pizzaID := pizzaGraph()

	// A second dependent of Dough with a broken material reference: its
	// failure must not block Pizza.
	missingProduct := uuid.New()
	brokenID := uuid.New()
	broken := entities.Recipe{
		ID: brokenID, Name: "Broken", Yield: 1, YieldUnit: "unit", LastUpdated: testNow,
		Materials: []entities.RecipeMaterial{
			{Kind: entities.MaterialKindRecipe, SubRecipeID: &doughID, Quantity: 1, Unit: "kg"},
			{Kind: entities.MaterialKindProduct, ProductID: &missingProduct, Quantity: 1, Unit: "kg"},
		},
	}
	recipes = append(recipes, broken)

	result, err := UpdateDependentRecipes(recipes, products, conversions, doughID, testNow.Add(1))
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, brokenID, result.Failures[0].RecipeID)
	var notFound *NotFoundError
	assert.ErrorAs(t, result.Failures[0].Err, &notFound)

	assert.Contains(t, result.Updated, pizzaID)
}

func TestUpdateDependentRecipesUnknownRecipe(t *testing.T) {
	recipes, products, conversions, _, _ := pizzaGraph()

	_, err := UpdateDependentRecipes(recipes, products, conversions, uuid.New(), testNow)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDetectCycle(t *testing.T) {
	recipes, _, _, doughID, pizzaID := pizzaGraph()
	require.NoError(t, DetectCycle(recipes, doughID))
	require.NoError(t, DetectCycle(recipes, pizzaID))

	// Close the loop: Dough now also contains Pizza.
	for i := range recipes {
		if recipes[i].ID == doughID {
			recipes[i].Materials = append(recipes[i].Materials, entities.RecipeMaterial{
				Kind: entities.MaterialKindRecipe, SubRecipeID: &pizzaID, Quantity: 1, Unit: "unit",
			})
		}
	}

	err := DetectCycle(recipes, doughID)
	var cycleErr *CyclicDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, doughID, cycleErr.RecipeID)
}

func TestRecalculateAllAppliesGlobalFixedCosts(t *testing.T) {
	recipes, products, conversions, doughID, pizzaID := pizzaGraph()

	result := RecalculateAll(recipes, products, conversions, 20, testNow.Add(1))
	require.Empty(t, result.Failures)

	dough := recipeByID(t, result.Recipes, doughID)
	pizza := recipeByID(t, result.Recipes, pizzaID)

	assert.Equal(t, 20.0, dough.FixedCostPercentage)
	assert.Equal(t, 20.0, pizza.FixedCostPercentage)

	// Dough's stored figures already matched its materials, so only the
	// markup moves; Pizza refreshes from Dough's unchanged 2/kg.
	assert.True(t, dough.UnitCost.Equal(decimal.NewFromInt(2)))
	assert.True(t, pizza.TotalCost.Equal(decimal.NewFromFloat(0.6)), "pizza total %s", pizza.TotalCost)
}
