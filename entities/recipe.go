package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaterialKindProduct = "product"
	MaterialKindRecipe  = "recipe"
)

type Recipe struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name                string          `json:"name"`
	IsBase              bool            `json:"is_base"`
	Yield               float64         `json:"yield"`
	YieldUnit           string          `json:"yield_unit"`
	FixedCostPercentage float64         `json:"fixed_cost_percentage"`
	ProfitPercentage    float64         `json:"profit_percentage"`
	TotalCost           decimal.Decimal `gorm:"type:decimal(12,4)" json:"total_cost"`
	UnitCost            decimal.Decimal `gorm:"type:decimal(12,4)" json:"unit_cost"`
	SuggestedPrice      decimal.Decimal `gorm:"type:decimal(12,4)" json:"suggested_price"`
	CostThreshold       float64         `json:"cost_threshold"`
	AlertEmail          string          `json:"alert_email,omitempty"`
	LastUpdated         time.Time       `gorm:"type:timestamp" json:"last_updated"`

	Materials   []RecipeMaterial   `gorm:"foreignKey:RecipeID" json:"materials"`
	CostHistory []CostHistoryEntry `gorm:"foreignKey:RecipeID" json:"cost_history,omitempty"`
	Timestamp
}

// RecipeMaterial is a tagged union: Kind selects which reference is set.
// A product line prices against the product's price per unit, a recipe line
// against the referenced recipe's stored unit cost.
type RecipeMaterial struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID    uuid.UUID  `gorm:"index" json:"recipe_id"`
	Kind        string     `json:"kind"` // "product" or "recipe"
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id,omitempty"`
	SubRecipeID *uuid.UUID `gorm:"type:uuid" json:"sub_recipe_id,omitempty"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit"`

	Product   *Product `gorm:"foreignKey:ProductID"`
	SubRecipe *Recipe  `gorm:"foreignKey:SubRecipeID"`
}

// CostHistoryEntry rows are immutable once written. They record every
// non-cosmetic unit-cost change of a recipe.
type CostHistoryEntry struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID         uuid.UUID       `gorm:"index" json:"recipe_id"`
	Date             time.Time       `gorm:"type:timestamp" json:"date"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(12,4)" json:"total_cost"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(12,4)" json:"unit_cost"`
	ChangePercentage float64         `json:"change_percentage"`
}
