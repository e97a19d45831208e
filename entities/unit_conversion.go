package entities

import (
	"github.com/google/uuid"
)

// UnitConversion is a directional factor: a quantity in FromUnit multiplied
// by Factor yields the equivalent quantity in ToUnit. The reciprocal entry is
// derivable and not guaranteed to be stored.
type UnitConversion struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	FromUnit string    `gorm:"uniqueIndex:idx_from_to" json:"from_unit"`
	ToUnit   string    `gorm:"uniqueIndex:idx_from_to" json:"to_unit"`
	Factor   float64   `json:"factor"`

	Timestamp
}
