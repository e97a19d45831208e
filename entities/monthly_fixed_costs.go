package entities

import (
	"time"

	"github.com/google/uuid"
)

// MonthlyFixedCosts supplies the global fixed-cost percentage applied to all
// recipes for a given period. At most one row per (month, year).
type MonthlyFixedCosts struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Month               int       `gorm:"uniqueIndex:idx_month_year" json:"month"`
	Year                int       `gorm:"uniqueIndex:idx_month_year" json:"year"`
	FixedCostPercentage float64   `json:"fixed_cost_percentage"`
	LastUpdated         time.Time `gorm:"type:timestamp" json:"last_updated"`

	Timestamp
}
