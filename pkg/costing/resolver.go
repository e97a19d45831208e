package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yosbany/ordenes-sub000/entities"
)

// ResolveMaterialCost prices one material line in the costing currency.
// Product lines convert the line quantity into the product's native unit and
// multiply by its price per unit. Recipe lines convert into the sub-recipe's
// yield unit and multiply by its stored unit cost — the stored value, never a
// fresh recompute: recomputing sub-recipes is the propagator's job.
func ResolveMaterialCost(line entities.RecipeMaterial, products []entities.Product, recipes []entities.Recipe, conversions []entities.UnitConversion) (decimal.Decimal, error) {
	if line.Quantity <= 0 {
		return decimal.Zero, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	switch line.Kind {
	case entities.MaterialKindProduct:
		if line.ProductID == nil {
			return decimal.Zero, &ValidationError{Field: "product_id", Reason: "required for product materials"}
		}
		product := findProduct(products, *line.ProductID)
		if product == nil {
			return decimal.Zero, &NotFoundError{Kind: "product", ID: *line.ProductID}
		}
		factor, err := ResolveFactor(line.Unit, product.UnitMeasure, conversions)
		if err != nil {
			return decimal.Zero, err
		}
		quantity := decimal.NewFromFloat(line.Quantity * factor)
		return product.PricePerUnit.Mul(quantity), nil

	case entities.MaterialKindRecipe:
		if line.SubRecipeID == nil {
			return decimal.Zero, &ValidationError{Field: "sub_recipe_id", Reason: "required for recipe materials"}
		}
		subRecipe := findRecipe(recipes, *line.SubRecipeID)
		if subRecipe == nil {
			return decimal.Zero, &NotFoundError{Kind: "recipe", ID: *line.SubRecipeID}
		}
		factor, err := ResolveFactor(line.Unit, subRecipe.YieldUnit, conversions)
		if err != nil {
			return decimal.Zero, err
		}
		quantity := decimal.NewFromFloat(line.Quantity * factor)
		return subRecipe.UnitCost.Mul(quantity), nil

	default:
		return decimal.Zero, &ValidationError{Field: "kind", Reason: "must be product or recipe"}
	}
}

func findProduct(products []entities.Product, id uuid.UUID) *entities.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

func findRecipe(recipes []entities.Recipe, id uuid.UUID) *entities.Recipe {
	for i := range recipes {
		if recipes[i].ID == id {
			return &recipes[i]
		}
	}
	return nil
}
