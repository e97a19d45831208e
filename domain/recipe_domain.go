package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessRecalculate     = "recipe costs recalculated successfully"
	MessageSuccessRecalculateAll  = "all recipe costs recalculated successfully"
	MessageSuccessGetCostHistory  = "success get cost history"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedRecalculate     = "failed to recalculate recipe costs"
	MessageFailedGetCostHistory  = "failed to get cost history"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrRecipeReferenced    = errors.New("recipe is referenced by other recipes")
	ErrCyclicDependency    = errors.New("recipe materials form a cycle")
	ErrInvalidMaterialLine = errors.New("material line must reference exactly one product or recipe")
	ErrInvalidYield        = errors.New("yield must be positive")
	ErrInvalidPercentage   = errors.New("percentage must be in [0, 100)")
)

type (
	MaterialLineRequest struct {
		Kind      string  `json:"kind" validate:"required,oneof=product recipe"`
		ProductID string  `json:"product_id,omitempty" validate:"omitempty,uuid"`
		RecipeID  string  `json:"recipe_id,omitempty" validate:"omitempty,uuid"`
		Quantity  float64 `json:"quantity" validate:"required,gt=0"`
		Unit      string  `json:"unit" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name             string                `json:"name" validate:"required"`
		IsBase           bool                  `json:"is_base"`
		Yield            float64               `json:"yield" validate:"required,gt=0"`
		YieldUnit        string                `json:"yield_unit" validate:"required"`
		ProfitPercentage float64               `json:"profit_percentage" validate:"gte=0,lt=100"`
		CostThreshold    float64               `json:"cost_threshold" validate:"gte=0"`
		AlertEmail       string                `json:"alert_email,omitempty" validate:"omitempty,email"`
		Materials        []MaterialLineRequest `json:"materials" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name             string                `json:"name,omitempty"`
		Yield            float64               `json:"yield,omitempty" validate:"omitempty,gt=0"`
		YieldUnit        string                `json:"yield_unit,omitempty"`
		ProfitPercentage *float64              `json:"profit_percentage,omitempty" validate:"omitempty,gte=0,lt=100"`
		CostThreshold    *float64              `json:"cost_threshold,omitempty" validate:"omitempty,gte=0"`
		AlertEmail       *string               `json:"alert_email,omitempty" validate:"omitempty,email"`
		Materials        []MaterialLineRequest `json:"materials,omitempty" validate:"omitempty,min=1,dive"`
	}

	MaterialLineResponse struct {
		Kind      string  `json:"kind"`
		ProductID string  `json:"product_id,omitempty"`
		RecipeID  string  `json:"recipe_id,omitempty"`
		Quantity  float64 `json:"quantity"`
		Unit      string  `json:"unit"`
	}

	RecipeResponse struct {
		ID                  string                 `json:"id"`
		Name                string                 `json:"name"`
		IsBase              bool                   `json:"is_base"`
		Yield               float64                `json:"yield"`
		YieldUnit           string                 `json:"yield_unit"`
		FixedCostPercentage float64                `json:"fixed_cost_percentage"`
		ProfitPercentage    float64                `json:"profit_percentage"`
		TotalCost           string                 `json:"total_cost"`
		UnitCost            string                 `json:"unit_cost"`
		SuggestedPrice      string                 `json:"suggested_price"`
		CostThreshold       float64                `json:"cost_threshold"`
		LastUpdated         time.Time              `json:"last_updated"`
		Materials           []MaterialLineResponse `json:"materials,omitempty"`
	}

	CostHistoryEntryResponse struct {
		Date             time.Time `json:"date"`
		TotalCost        string    `json:"total_cost"`
		UnitCost         string    `json:"unit_cost"`
		ChangePercentage float64   `json:"change_percentage"`
	}

	RecalculateResponse struct {
		Recipe   RecipeResponse       `json:"recipe"`
		Updated  []string             `json:"updated_recipes"`
		Failures []PropagationFailure `json:"failures,omitempty"`
	}

	RecalculateAllResponse struct {
		Updated  []string             `json:"updated_recipes"`
		Failures []PropagationFailure `json:"failures,omitempty"`
	}

	PropagationFailure struct {
		RecipeID string `json:"recipe_id"`
		Reason   string `json:"reason"`
	}
)
