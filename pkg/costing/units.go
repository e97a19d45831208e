package costing

import (
	"sort"

	"github.com/yosbany/ordenes-sub000/entities"
)

// ResolveFactor returns the multiplier that converts a quantity expressed in
// from into the equivalent quantity in to. Resolution order: identity, direct
// entry, reciprocal entry, then exactly one intermediate hop through a unit
// present in the table. Deeper chains are unsupported and fail with
// *UnitConversionError; callers must never fall back to a factor of 1 across
// genuinely different units.
func ResolveFactor(from, to string, table []entities.UnitConversion) (float64, error) {
	if from == to {
		return 1, nil
	}

	if factor, ok := directFactor(from, to, table); ok {
		return factor, nil
	}

	for _, via := range tableUnits(table) {
		if via == from || via == to {
			continue
		}
		first, ok := directFactor(from, via, table)
		if !ok {
			continue
		}
		second, ok := directFactor(via, to, table)
		if !ok {
			continue
		}
		return first * second, nil
	}

	return 0, &UnitConversionError{FromUnit: from, ToUnit: to}
}

// directFactor resolves a pair from the stored entries only: a direct entry
// wins over the derived reciprocal of the opposite entry.
func directFactor(from, to string, table []entities.UnitConversion) (float64, bool) {
	for _, conversion := range table {
		if conversion.FromUnit == from && conversion.ToUnit == to {
			return conversion.Factor, true
		}
	}
	for _, conversion := range table {
		if conversion.FromUnit == to && conversion.ToUnit == from && conversion.Factor != 0 {
			return 1 / conversion.Factor, true
		}
	}
	return 0, false
}

// tableUnits lists every unit symbol appearing in the table, sorted so hop
// resolution is deterministic regardless of row order.
func tableUnits(table []entities.UnitConversion) []string {
	seen := make(map[string]bool, len(table)*2)
	units := make([]string, 0, len(table)*2)
	for _, conversion := range table {
		if !seen[conversion.FromUnit] {
			seen[conversion.FromUnit] = true
			units = append(units, conversion.FromUnit)
		}
		if !seen[conversion.ToUnit] {
			seen[conversion.ToUnit] = true
			units = append(units, conversion.ToUnit)
		}
	}
	sort.Strings(units)
	return units
}
