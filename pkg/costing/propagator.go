package costing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yosbany/ordenes-sub000/entities"
)

// RecipeFailure records one recipe that could not be recomputed during a
// propagation pass. Failures never abort the recompute of unaffected
// siblings.
type RecipeFailure struct {
	RecipeID uuid.UUID
	Err      error
}

// PropagationResult is the outcome of one propagation pass. Recipes is a new
// slice with patched copies for every recipe recomputed beyond tolerance;
// entries for untouched ids are carried over as-is. History holds the new
// ledger entries, RecipeID already filled.
type PropagationResult struct {
	Recipes  []entities.Recipe
	Updated  []uuid.UUID
	History  []entities.CostHistoryEntry
	Failures []RecipeFailure
}

// DetectCycle reports whether startID can reach itself through recipe-kind
// material references. Used to reject an edit before it is computed or
// persisted.
func DetectCycle(recipes []entities.Recipe, startID uuid.UUID) error {
	byID := indexRecipes(recipes)

	var walk func(id uuid.UUID, path []uuid.UUID, seen map[uuid.UUID]bool) error
	walk = func(id uuid.UUID, path []uuid.UUID, seen map[uuid.UUID]bool) error {
		recipe, ok := byID[id]
		if !ok {
			return nil
		}
		for _, line := range recipe.Materials {
			if line.Kind != entities.MaterialKindRecipe || line.SubRecipeID == nil {
				continue
			}
			next := *line.SubRecipeID
			if next == startID {
				return &CyclicDependencyError{RecipeID: startID, Path: append(path, next)}
			}
			if seen[next] {
				continue
			}
			seen[next] = true
			if err := walk(next, append(path, next), seen); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(startID, []uuid.UUID{startID}, map[uuid.UUID]bool{startID: true})
}

// UpdateDependentRecipes recomputes, breadth-first and level by level, every
// recipe that directly or transitively contains changedRecipeID. A recipe is
// processed only after all of its still-pending dependencies in this pass
// have been resolved, and at most once per pass, so running the propagator
// twice with no input change is a no-op. Dependents are marked dirty, and
// thus re-enqueued upward, only when their own unit cost moves beyond the
// tolerance. Recipes sitting on or downstream of a reference cycle are
// reported as CyclicDependencyError failures instead of being recomputed;
// everything outside the cycle still completes.
func UpdateDependentRecipes(
	recipes []entities.Recipe,
	products []entities.Product,
	conversions []entities.UnitConversion,
	changedRecipeID uuid.UUID,
	now time.Time,
) (PropagationResult, error) {
	working := make([]entities.Recipe, len(recipes))
	copy(working, recipes)

	byIndex := make(map[uuid.UUID]int, len(working))
	for i := range working {
		byIndex[working[i].ID] = i
	}
	if _, ok := byIndex[changedRecipeID]; !ok {
		return PropagationResult{}, &NotFoundError{Kind: "recipe", ID: changedRecipeID}
	}

	dependents := dependentsIndex(working)

	// Affected set: everything reverse-reachable from the changed recipe.
	// Re-reaching the changed recipe itself means a cycle runs through it.
	affected := make(map[uuid.UUID]bool)
	cycleThroughChanged := false
	queue := append([]uuid.UUID(nil), dependents[changedRecipeID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == changedRecipeID {
			cycleThroughChanged = true
			continue
		}
		if affected[id] {
			continue
		}
		affected[id] = true
		queue = append(queue, dependents[id]...)
	}

	result := PropagationResult{Recipes: working}

	// A cycle through the changed recipe itself means its stored figures are
	// corrupt; the entire affected subgraph is blocked rather than partially
	// applied.
	if cycleThroughChanged {
		result.Failures = append(result.Failures, RecipeFailure{
			RecipeID: changedRecipeID,
			Err:      &CyclicDependencyError{RecipeID: changedRecipeID},
		})
		blocked := make([]uuid.UUID, 0, len(affected))
		for id := range affected {
			blocked = append(blocked, id)
		}
		sortIDs(blocked)
		for _, id := range blocked {
			result.Failures = append(result.Failures, RecipeFailure{
				RecipeID: id,
				Err:      &CyclicDependencyError{RecipeID: id},
			})
		}
		return result, nil
	}

	// Pending-dependency counts within the affected set. The changed recipe
	// itself counts as already resolved.
	pending := make(map[uuid.UUID]int, len(affected))
	for id := range affected {
		recipe := working[byIndex[id]]
		for _, dep := range recipeDependencies(recipe) {
			if affected[dep] {
				pending[id]++
			}
		}
	}

	ready := make([]uuid.UUID, 0, len(affected))
	for id := range affected {
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}
	sortIDs(ready)

	dirty := map[uuid.UUID]bool{changedRecipeID: true}
	processed := make(map[uuid.UUID]bool, len(affected))

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		if processed[id] {
			continue
		}
		processed[id] = true

		index := byIndex[id]
		recipe := working[index]

		if dependsOnDirty(recipe, dirty) {
			previous := previousUnitCost(recipe)
			calc, err := CalculateRecipeCosts(
				recipe.Materials,
				products,
				working,
				conversions,
				recipe.Yield,
				recipe.FixedCostPercentage,
				recipe.ProfitPercentage,
				previous,
				now,
			)
			switch {
			case err != nil:
				result.Failures = append(result.Failures, RecipeFailure{RecipeID: id, Err: err})
			case calc.Changed:
				recipe.TotalCost = calc.TotalCost
				recipe.UnitCost = calc.UnitCost
				recipe.SuggestedPrice = calc.SuggestedPrice
				recipe.LastUpdated = now
				working[index] = recipe
				dirty[id] = true
				result.Updated = append(result.Updated, id)

				entry := *calc.HistoryEntry
				entry.RecipeID = id
				result.History = append(result.History, entry)
			}
		}

		next := append([]uuid.UUID(nil), dependents[id]...)
		sortIDs(next)
		for _, dependent := range next {
			if !affected[dependent] || processed[dependent] {
				continue
			}
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	// Whatever never became ready sits on or behind a cycle.
	blocked := make([]uuid.UUID, 0)
	for id := range affected {
		if !processed[id] {
			blocked = append(blocked, id)
		}
	}
	sortIDs(blocked)
	for _, id := range blocked {
		result.Failures = append(result.Failures, RecipeFailure{
			RecipeID: id,
			Err:      &CyclicDependencyError{RecipeID: id},
		})
	}

	return result, nil
}

// RecalculateAll recomputes every recipe in dependency order, applying
// fixedCostPercentage as the active global policy. Used when the monthly
// fixed-cost percentage changes and every stored figure must follow.
func RecalculateAll(
	recipes []entities.Recipe,
	products []entities.Product,
	conversions []entities.UnitConversion,
	fixedCostPercentage float64,
	now time.Time,
) PropagationResult {
	working := make([]entities.Recipe, len(recipes))
	copy(working, recipes)

	byIndex := make(map[uuid.UUID]int, len(working))
	for i := range working {
		byIndex[working[i].ID] = i
	}

	dependents := dependentsIndex(working)

	pending := make(map[uuid.UUID]int, len(working))
	for i := range working {
		id := working[i].ID
		pending[id] = 0
		for _, dep := range recipeDependencies(working[i]) {
			if _, ok := byIndex[dep]; ok {
				pending[id]++
			}
		}
	}

	ready := make([]uuid.UUID, 0, len(working))
	for id, count := range pending {
		if count == 0 {
			ready = append(ready, id)
		}
	}
	sortIDs(ready)

	result := PropagationResult{Recipes: working}
	processed := make(map[uuid.UUID]bool, len(working))

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		if processed[id] {
			continue
		}
		processed[id] = true

		index := byIndex[id]
		recipe := working[index]

		previous := previousUnitCost(recipe)
		calc, err := CalculateRecipeCosts(
			recipe.Materials,
			products,
			working,
			conversions,
			recipe.Yield,
			fixedCostPercentage,
			recipe.ProfitPercentage,
			previous,
			now,
		)
		if err != nil {
			result.Failures = append(result.Failures, RecipeFailure{RecipeID: id, Err: err})
		} else {
			recipe.FixedCostPercentage = fixedCostPercentage
			recipe.TotalCost = calc.TotalCost
			recipe.SuggestedPrice = calc.SuggestedPrice
			if calc.Changed {
				recipe.UnitCost = calc.UnitCost
				recipe.LastUpdated = now
				result.Updated = append(result.Updated, id)

				entry := *calc.HistoryEntry
				entry.RecipeID = id
				result.History = append(result.History, entry)
			}
			working[index] = recipe
		}

		next := append([]uuid.UUID(nil), dependents[id]...)
		sortIDs(next)
		for _, dependent := range next {
			if processed[dependent] {
				continue
			}
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	blocked := make([]uuid.UUID, 0)
	for i := range working {
		if !processed[working[i].ID] {
			blocked = append(blocked, working[i].ID)
		}
	}
	sortIDs(blocked)
	for _, id := range blocked {
		result.Failures = append(result.Failures, RecipeFailure{
			RecipeID: id,
			Err:      &CyclicDependencyError{RecipeID: id},
		})
	}

	return result
}

// dependentsIndex maps every recipe id to the ids of recipes whose materials
// reference it directly.
func dependentsIndex(recipes []entities.Recipe) map[uuid.UUID][]uuid.UUID {
	index := make(map[uuid.UUID][]uuid.UUID)
	for i := range recipes {
		for _, dep := range recipeDependencies(recipes[i]) {
			index[dep] = append(index[dep], recipes[i].ID)
		}
	}
	return index
}

// recipeDependencies lists the distinct recipe ids referenced by recipe-kind
// material lines.
func recipeDependencies(recipe entities.Recipe) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	deps := make([]uuid.UUID, 0)
	for _, line := range recipe.Materials {
		if line.Kind != entities.MaterialKindRecipe || line.SubRecipeID == nil {
			continue
		}
		if seen[*line.SubRecipeID] {
			continue
		}
		seen[*line.SubRecipeID] = true
		deps = append(deps, *line.SubRecipeID)
	}
	return deps
}

func dependsOnDirty(recipe entities.Recipe, dirty map[uuid.UUID]bool) bool {
	for _, dep := range recipeDependencies(recipe) {
		if dirty[dep] {
			return true
		}
	}
	return false
}

// previousUnitCost returns the stored unit cost, or nil for a recipe that
// has never been computed.
func previousUnitCost(recipe entities.Recipe) *decimal.Decimal {
	if recipe.LastUpdated.IsZero() {
		return nil
	}
	value := recipe.UnitCost
	return &value
}

func indexRecipes(recipes []entities.Recipe) map[uuid.UUID]entities.Recipe {
	byID := make(map[uuid.UUID]entities.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = recipes[i]
	}
	return byID
}

// sortIDs keeps queue order deterministic across runs.
func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
