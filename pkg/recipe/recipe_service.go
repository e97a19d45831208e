package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yosbany/ordenes-sub000/domain"
	"github.com/yosbany/ordenes-sub000/entities"
	"github.com/yosbany/ordenes-sub000/pkg/alert"
	"github.com/yosbany/ordenes-sub000/pkg/costing"
)

type (
	// ProductSource supplies the read-only product snapshot the engine
	// prices raw materials against.
	ProductSource interface {
		GetAllProducts(ctx context.Context) ([]entities.Product, error)
	}

	// ConversionSource supplies the unit conversion table snapshot.
	ConversionSource interface {
		GetAllConversions(ctx context.Context) ([]entities.UnitConversion, error)
	}

	// FixedCostsSource supplies the fixed-cost percentage of a period.
	FixedCostsSource interface {
		GetForPeriod(ctx context.Context, month, year int) (*entities.MonthlyFixedCosts, error)
	}

	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest) (domain.RecalculateResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string) error
		RecalculateRecipe(ctx context.Context, recipeID string) (domain.RecalculateResponse, error)
		RecalculateAll(ctx context.Context, fixedCostPercentage float64) (domain.RecalculateAllResponse, error)
		RecalculateAllForCurrentPeriod(ctx context.Context) (domain.RecalculateAllResponse, error)
		RecalculateForProduct(ctx context.Context, productID string) ([]string, []domain.PropagationFailure, error)
		GetCostHistory(ctx context.Context, recipeID string, page, limit int) ([]domain.CostHistoryEntryResponse, int64, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		products         ProductSource
		conversions      ConversionSource
		fixedCosts       FixedCostsSource
		alertService     alert.AlertService
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	products ProductSource,
	conversions ConversionSource,
	fixedCosts FixedCostsSource,
	alertService alert.AlertService,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		products:         products,
		conversions:      conversions,
		fixedCosts:       fixedCosts,
		alertService:     alertService,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	recipeID := uuid.New()
	materials, err := materialsFromRequest(recipeID, req.Materials)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	now := time.Now()
	recipe := &entities.Recipe{
		ID:                  recipeID,
		Name:                req.Name,
		IsBase:              req.IsBase,
		Yield:               req.Yield,
		YieldUnit:           req.YieldUnit,
		FixedCostPercentage: s.activeFixedCostPercentage(ctx, now),
		ProfitPercentage:    req.ProfitPercentage,
		CostThreshold:       req.CostThreshold,
		AlertEmail:          req.AlertEmail,
		Materials:           materials,
	}

	// Reject a definition that would close a reference loop before anything
	// is persisted.
	snapshot, err := s.recipeRepository.GetAllRecipes(ctx)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := costing.DetectCycle(append(snapshot, *recipe), recipeID); err != nil {
		return domain.RecipeResponse{}, domain.ErrCyclicDependency
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	// First compute populates the zeroed cost fields and opens the ledger.
	if _, err := s.recalculateAndPropagate(ctx, recipeID); err != nil {
		return domain.RecipeResponse{}, err
	}

	created, err := s.recipeRepository.GetRecipeByID(ctx, recipeID.String())
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(created), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, toRecipeResponse(recipe))
	}
	return result, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest) (domain.RecalculateResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecalculateResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecalculateResponse{}, err
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Yield > 0 {
		recipe.Yield = req.Yield
	}
	if req.YieldUnit != "" {
		recipe.YieldUnit = req.YieldUnit
	}
	if req.ProfitPercentage != nil {
		recipe.ProfitPercentage = *req.ProfitPercentage
	}
	if req.CostThreshold != nil {
		recipe.CostThreshold = *req.CostThreshold
	}
	if req.AlertEmail != nil {
		recipe.AlertEmail = *req.AlertEmail
	}

	var materials []entities.RecipeMaterial
	if req.Materials != nil {
		materials, err = materialsFromRequest(recipe.ID, req.Materials)
		if err != nil {
			return domain.RecalculateResponse{}, err
		}

		// Cycle check against the would-be graph, before persisting.
		snapshot, err := s.recipeRepository.GetAllRecipes(ctx)
		if err != nil {
			return domain.RecalculateResponse{}, err
		}
		for i := range snapshot {
			if snapshot[i].ID == recipe.ID {
				snapshot[i].Materials = materials
			}
		}
		if err := costing.DetectCycle(snapshot, recipe.ID); err != nil {
			return domain.RecalculateResponse{}, domain.ErrCyclicDependency
		}
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.RecalculateResponse{}, err
	}
	if materials != nil {
		if err := s.recipeRepository.ReplaceMaterials(ctx, recipe.ID, materials); err != nil {
			return domain.RecalculateResponse{}, err
		}
	}

	return s.RecalculateRecipe(ctx, recipeID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	references, err := s.recipeRepository.CountMaterialReferences(ctx, recipeID)
	if err != nil {
		return err
	}
	if references > 0 {
		return domain.ErrRecipeReferenced
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) RecalculateRecipe(ctx context.Context, recipeID string) (domain.RecalculateResponse, error) {
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.RecalculateResponse{}, domain.ErrParseUUID
	}

	outcome, err := s.recalculateAndPropagate(ctx, recipeUUID)
	if err != nil {
		return domain.RecalculateResponse{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecalculateResponse{}, err
	}

	return domain.RecalculateResponse{
		Recipe:   toRecipeResponse(recipe),
		Updated:  outcome.updated,
		Failures: outcome.failures,
	}, nil
}

func (s *recipeService) RecalculateAll(ctx context.Context, fixedCostPercentage float64) (domain.RecalculateAllResponse, error) {
	recipes, products, conversions, err := s.loadSnapshots(ctx)
	if err != nil {
		return domain.RecalculateAllResponse{}, err
	}

	result := costing.RecalculateAll(recipes, products, conversions, fixedCostPercentage, time.Now())
	if err := s.persistPropagation(ctx, result, true); err != nil {
		return domain.RecalculateAllResponse{}, err
	}

	return domain.RecalculateAllResponse{
		Updated:  idStrings(result.Updated),
		Failures: toPropagationFailures(result.Failures),
	}, nil
}

// RecalculateAllForCurrentPeriod sweeps every recipe with the overhead policy
// of the current month.
func (s *recipeService) RecalculateAllForCurrentPeriod(ctx context.Context) (domain.RecalculateAllResponse, error) {
	return s.RecalculateAll(ctx, s.activeFixedCostPercentage(ctx, time.Now()))
}

// RecalculateForProduct recomputes every recipe that directly contains the
// product, propagating each change upward. Used after a price update.
func (s *recipeService) RecalculateForProduct(ctx context.Context, productID string) ([]string, []domain.PropagationFailure, error) {
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return nil, nil, domain.ErrParseUUID
	}

	recipes, err := s.recipeRepository.GetAllRecipes(ctx)
	if err != nil {
		return nil, nil, err
	}

	var updated []string
	var failures []domain.PropagationFailure
	seen := make(map[string]bool)

	for i := range recipes {
		if !containsProduct(recipes[i], productUUID) {
			continue
		}
		outcome, err := s.recalculateAndPropagate(ctx, recipes[i].ID)
		if err != nil {
			failures = append(failures, domain.PropagationFailure{
				RecipeID: recipes[i].ID.String(),
				Reason:   err.Error(),
			})
			continue
		}
		for _, id := range outcome.updated {
			if !seen[id] {
				seen[id] = true
				updated = append(updated, id)
			}
		}
		failures = append(failures, outcome.failures...)
	}

	return updated, failures, nil
}

func (s *recipeService) GetCostHistory(ctx context.Context, recipeID string, page, limit int) ([]domain.CostHistoryEntryResponse, int64, error) {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrRecipeNotFound
		}
		return nil, 0, err
	}

	entries, count, err := s.recipeRepository.GetCostHistory(ctx, recipeID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.CostHistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, domain.CostHistoryEntryResponse{
			Date:             entry.Date,
			TotalCost:        entry.TotalCost.String(),
			UnitCost:         entry.UnitCost.String(),
			ChangePercentage: entry.ChangePercentage,
		})
	}
	return result, count, nil
}

type recalculateOutcome struct {
	updated  []string
	failures []domain.PropagationFailure
}

// recalculateAndPropagate runs the full control flow of one cost-affecting
// event: recompute the target recipe, persist its figures and ledger entry,
// then let the propagator carry the change through every dependent.
func (s *recipeService) recalculateAndPropagate(ctx context.Context, recipeID uuid.UUID) (recalculateOutcome, error) {
	recipes, products, conversions, err := s.loadSnapshots(ctx)
	if err != nil {
		return recalculateOutcome{}, err
	}

	if err := costing.DetectCycle(recipes, recipeID); err != nil {
		return recalculateOutcome{}, domain.ErrCyclicDependency
	}

	var target *entities.Recipe
	for i := range recipes {
		if recipes[i].ID == recipeID {
			target = &recipes[i]
			break
		}
	}
	if target == nil {
		return recalculateOutcome{}, domain.ErrRecipeNotFound
	}

	now := time.Now()
	var previous *decimal.Decimal
	if !target.LastUpdated.IsZero() {
		value := target.UnitCost
		previous = &value
	}

	calc, err := costing.CalculateRecipeCosts(
		target.Materials,
		products,
		recipes,
		conversions,
		target.Yield,
		target.FixedCostPercentage,
		target.ProfitPercentage,
		previous,
		now,
	)
	if err != nil {
		return recalculateOutcome{}, err
	}

	outcome := recalculateOutcome{}
	if calc.Changed {
		target.TotalCost = calc.TotalCost
		target.UnitCost = calc.UnitCost
		target.SuggestedPrice = calc.SuggestedPrice
		target.LastUpdated = now
		if err := s.recipeRepository.SaveCostFigures(ctx, target); err != nil {
			return recalculateOutcome{}, err
		}

		entry := *calc.HistoryEntry
		entry.RecipeID = recipeID
		if err := s.recipeRepository.AppendCostHistory(ctx, []entities.CostHistoryEntry{entry}); err != nil {
			return recalculateOutcome{}, err
		}
		s.notifyThreshold(ctx, *target, entry)
		outcome.updated = append(outcome.updated, recipeID.String())

		propagation, err := costing.UpdateDependentRecipes(recipes, products, conversions, recipeID, now)
		if err != nil {
			return recalculateOutcome{}, err
		}
		if err := s.persistPropagation(ctx, propagation, false); err != nil {
			return recalculateOutcome{}, err
		}
		outcome.updated = append(outcome.updated, idStrings(propagation.Updated)...)
		outcome.failures = toPropagationFailures(propagation.Failures)
	}

	return outcome, nil
}

// persistPropagation writes back every recipe the engine touched, appends the
// new ledger rows and fires threshold alerts. With includeUnchanged set, the
// figures of untouched-but-reprocessed recipes are persisted too (a policy
// sweep rewrites the markup of every recipe).
func (s *recipeService) persistPropagation(ctx context.Context, result costing.PropagationResult, includeUnchanged bool) error {
	updatedSet := make(map[uuid.UUID]bool, len(result.Updated))
	for _, id := range result.Updated {
		updatedSet[id] = true
	}
	failedSet := make(map[uuid.UUID]bool, len(result.Failures))
	for _, failure := range result.Failures {
		failedSet[failure.RecipeID] = true
	}

	for i := range result.Recipes {
		recipe := result.Recipes[i]
		if failedSet[recipe.ID] {
			continue
		}
		if !updatedSet[recipe.ID] && !includeUnchanged {
			continue
		}
		if err := s.recipeRepository.SaveCostFigures(ctx, &recipe); err != nil {
			return err
		}
	}

	if err := s.recipeRepository.AppendCostHistory(ctx, result.History); err != nil {
		return err
	}

	for _, entry := range result.History {
		for i := range result.Recipes {
			if result.Recipes[i].ID == entry.RecipeID {
				s.notifyThreshold(ctx, result.Recipes[i], entry)
				break
			}
		}
	}

	return nil
}

// notifyThreshold fires a cost alert when the change crosses the recipe's
// configured threshold. Alert failures are not critical to the recompute.
func (s *recipeService) notifyThreshold(ctx context.Context, recipe entities.Recipe, entry entities.CostHistoryEntry) {
	if s.alertService == nil || recipe.CostThreshold <= 0 || recipe.AlertEmail == "" {
		return
	}
	change := entry.ChangePercentage
	if change < 0 {
		change = -change
	}
	if change <= recipe.CostThreshold {
		return
	}
	_ = s.alertService.NotifyCostChange(ctx, recipe, entry)
}

func (s *recipeService) loadSnapshots(ctx context.Context) ([]entities.Recipe, []entities.Product, []entities.UnitConversion, error) {
	recipes, err := s.recipeRepository.GetAllRecipes(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	products, err := s.products.GetAllProducts(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	conversions, err := s.conversions.GetAllConversions(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return recipes, products, conversions, nil
}

// activeFixedCostPercentage resolves the policy of the current period; a
// period with no record contributes no overhead.
func (s *recipeService) activeFixedCostPercentage(ctx context.Context, now time.Time) float64 {
	if s.fixedCosts == nil {
		return 0
	}
	record, err := s.fixedCosts.GetForPeriod(ctx, int(now.Month()), now.Year())
	if err != nil || record == nil {
		return 0
	}
	return record.FixedCostPercentage
}

func materialsFromRequest(recipeID uuid.UUID, lines []domain.MaterialLineRequest) ([]entities.RecipeMaterial, error) {
	materials := make([]entities.RecipeMaterial, 0, len(lines))
	for _, line := range lines {
		material := entities.RecipeMaterial{
			ID:       uuid.New(),
			RecipeID: recipeID,
			Kind:     line.Kind,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		}
		switch line.Kind {
		case entities.MaterialKindProduct:
			if line.ProductID == "" || line.RecipeID != "" {
				return nil, domain.ErrInvalidMaterialLine
			}
			productUUID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return nil, domain.ErrParseUUID
			}
			material.ProductID = &productUUID
		case entities.MaterialKindRecipe:
			if line.RecipeID == "" || line.ProductID != "" {
				return nil, domain.ErrInvalidMaterialLine
			}
			recipeUUID, err := uuid.Parse(line.RecipeID)
			if err != nil {
				return nil, domain.ErrParseUUID
			}
			material.SubRecipeID = &recipeUUID
		default:
			return nil, domain.ErrInvalidMaterialLine
		}
		materials = append(materials, material)
	}
	return materials, nil
}

func containsProduct(recipe entities.Recipe, productID uuid.UUID) bool {
	for _, line := range recipe.Materials {
		if line.Kind == entities.MaterialKindProduct && line.ProductID != nil && *line.ProductID == productID {
			return true
		}
	}
	return false
}

func toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	materials := make([]domain.MaterialLineResponse, 0, len(recipe.Materials))
	for _, line := range recipe.Materials {
		response := domain.MaterialLineResponse{
			Kind:     line.Kind,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		}
		if line.ProductID != nil {
			response.ProductID = line.ProductID.String()
		}
		if line.SubRecipeID != nil {
			response.RecipeID = line.SubRecipeID.String()
		}
		materials = append(materials, response)
	}

	return domain.RecipeResponse{
		ID:                  recipe.ID.String(),
		Name:                recipe.Name,
		IsBase:              recipe.IsBase,
		Yield:               recipe.Yield,
		YieldUnit:           recipe.YieldUnit,
		FixedCostPercentage: recipe.FixedCostPercentage,
		ProfitPercentage:    recipe.ProfitPercentage,
		TotalCost:           recipe.TotalCost.String(),
		UnitCost:            recipe.UnitCost.String(),
		SuggestedPrice:      recipe.SuggestedPrice.String(),
		CostThreshold:       recipe.CostThreshold,
		LastUpdated:         recipe.LastUpdated,
		Materials:           materials,
	}
}

func idStrings(ids []uuid.UUID) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.String())
	}
	return result
}

func toPropagationFailures(failures []costing.RecipeFailure) []domain.PropagationFailure {
	result := make([]domain.PropagationFailure, 0, len(failures))
	for _, failure := range failures {
		result = append(result, domain.PropagationFailure{
			RecipeID: failure.RecipeID.String(),
			Reason:   failure.Err.Error(),
		})
	}
	return result
}
