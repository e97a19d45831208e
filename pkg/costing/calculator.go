package costing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yosbany/ordenes-sub000/entities"
)

// changeTolerance is the relative unit-cost delta below which a recompute is
// considered cosmetic: no history entry, no propagation.
const changeTolerance = 0.0001 // 0.01%

// epsilon guards the relative-change division when the previous unit cost is
// zero.
const epsilon = 1e-9

// CalcResult carries the figures of one recipe recompute. HistoryEntry is
// nil when the unit cost moved less than the tolerance; its RecipeID is left
// for the caller to fill before persisting.
type CalcResult struct {
	TotalCost      decimal.Decimal
	UnitCost       decimal.Decimal
	SuggestedPrice decimal.Decimal
	Changed        bool
	HistoryEntry   *entities.CostHistoryEntry
}

// CalculateRecipeCosts aggregates the resolved material costs of one recipe
// into total, unit and suggested-price figures. Fixed costs and profit are
// both expressed as percentages of the final price, so each is applied by
// dividing by (1 - pct/100). The function is pure: it never mutates its
// inputs, and the clock is the now parameter, so identical inputs always
// produce identical outputs.
//
// previousUnitCost is the recipe's stored unit cost from the last compute,
// or nil for a first compute. A first compute always yields a history entry
// with a zero change percentage. The same zero percentage is recorded when
// the previous unit cost is zero: the relative delta has no base, even
// though the move still counts as a change and is ledgered.
func CalculateRecipeCosts(
	materials []entities.RecipeMaterial,
	products []entities.Product,
	recipes []entities.Recipe,
	conversions []entities.UnitConversion,
	yield float64,
	fixedCostPercentage float64,
	profitPercentage float64,
	previousUnitCost *decimal.Decimal,
	now time.Time,
) (CalcResult, error) {
	if yield <= 0 {
		return CalcResult{}, &ValidationError{Field: "yield", Reason: "must be positive"}
	}
	if fixedCostPercentage < 0 || fixedCostPercentage >= 100 {
		return CalcResult{}, &ValidationError{Field: "fixed_cost_percentage", Reason: "must be in [0, 100)"}
	}
	if profitPercentage < 0 || profitPercentage >= 100 {
		return CalcResult{}, &ValidationError{Field: "profit_percentage", Reason: "must be in [0, 100)"}
	}

	totalCost := decimal.Zero
	for _, line := range materials {
		lineCost, err := ResolveMaterialCost(line, products, recipes, conversions)
		if err != nil {
			return CalcResult{}, err
		}
		totalCost = totalCost.Add(lineCost)
	}

	unitCost := totalCost.Div(decimal.NewFromFloat(yield))
	overheadLoaded := unitCost.Div(decimal.NewFromFloat(1 - fixedCostPercentage/100))
	suggestedPrice := overheadLoaded.Div(decimal.NewFromFloat(1 - profitPercentage/100))

	result := CalcResult{
		TotalCost:      totalCost,
		UnitCost:       unitCost,
		SuggestedPrice: suggestedPrice,
	}

	changePercentage := 0.0
	if previousUnitCost == nil {
		result.Changed = true
	} else {
		result.Changed = !withinTolerance(*previousUnitCost, unitCost)
		if previousUnitCost.Sign() > 0 {
			delta := unitCost.Sub(*previousUnitCost).Div(*previousUnitCost)
			changePercentage, _ = delta.Mul(decimal.NewFromInt(100)).Float64()
		}
	}

	if result.Changed {
		result.HistoryEntry = &entities.CostHistoryEntry{
			Date:             now,
			TotalCost:        totalCost,
			UnitCost:         unitCost,
			ChangePercentage: changePercentage,
		}
	}

	return result, nil
}

// withinTolerance reports whether next deviates from prev by no more than
// the relative change tolerance.
func withinTolerance(prev, next decimal.Decimal) bool {
	diff := next.Sub(prev).Abs()
	denominator := prev.Abs()
	floor := decimal.NewFromFloat(epsilon)
	if denominator.LessThan(floor) {
		denominator = floor
	}
	return diff.Div(denominator).LessThanOrEqual(decimal.NewFromFloat(changeTolerance))
}
