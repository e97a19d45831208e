package costing

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports a material line referencing a product or recipe id
// that is absent from the supplied snapshot.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// UnitConversionError reports a unit pair with no direct, reciprocal or
// single-hop conversion in the table.
type UnitConversionError struct {
	FromUnit string
	ToUnit   string
}

func (e *UnitConversionError) Error() string {
	return fmt.Sprintf("no conversion from %q to %q", e.FromUnit, e.ToUnit)
}

// ValidationError reports an input that must block the compute rather than
// be clamped silently.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CyclicDependencyError reports a recipe reachable from itself through
// recipe-kind material references. A true cycle is corrupt data and blocks
// the update for the affected subgraph.
type CyclicDependencyError struct {
	RecipeID uuid.UUID
	Path     []uuid.UUID
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency involving recipe %s", e.RecipeID)
}
