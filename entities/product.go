package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string          `json:"name"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,4)" json:"price_per_unit"`
	UnitMeasure  string          `json:"unit_measure"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`

	Timestamp
}
